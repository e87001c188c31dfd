// Package config provides configuration management for the lookgen CLI.
//
// Configuration is layered: built-in defaults, then lookgen.yaml, then
// LOOKGEN_* environment variables, then command-line flags.
package config

import (
	"fmt"

	"github.com/leapstack-labs/lookgen/pkg/core"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

// Default configuration values.
const (
	DefaultModelsDir  = "models"
	DefaultOutputDir  = "lookml"
	DefaultOutput     = "text"
	DefaultConfigFile = "lookgen.yaml"
)

// ValidationConfig holds connectivity-validation configuration.
type ValidationConfig struct {
	// MaxJoinHops is the hard join traversal ceiling.
	MaxJoinHops int `koanf:"max_join_hops"`

	// WarnJoinDepth warns on reachable measures deeper than this.
	// Zero means "same as max_join_hops".
	WarnJoinDepth int `koanf:"warn_join_depth"`

	// Disabled contains issue types to skip (e.g. "exceeds_hop_limit").
	Disabled []string `koanf:"disabled"`

	// Severity maps issue type to severity override (error, warning, info).
	Severity map[string]string `koanf:"severity"`
}

// ToValidatorConfig converts the YAML-facing settings into the
// validator's configuration, rejecting unknown severity names.
func (v *ValidationConfig) ToValidatorConfig() (*semantic.ValidatorConfig, error) {
	cfg := semantic.NewValidatorConfig()
	if v == nil {
		return cfg, nil
	}
	if v.MaxJoinHops > 0 {
		cfg.MaxJoinHops = v.MaxJoinHops
	}
	if v.WarnJoinDepth > 0 {
		cfg.WarnJoinDepth = v.WarnJoinDepth
	} else {
		cfg.WarnJoinDepth = cfg.MaxJoinHops
	}
	for _, name := range v.Disabled {
		cfg.DisabledChecks[semantic.IssueType(name)] = true
	}
	for name, sev := range v.Severity {
		parsed, ok := core.ParseSeverity(sev)
		if !ok {
			return nil, fmt.Errorf("validation.severity[%s]: unknown severity %q", name, sev)
		}
		cfg.SeverityOverrides[semantic.IssueType(name)] = parsed
	}
	return cfg, nil
}

// Config holds all CLI configuration options.
type Config struct {
	ModelsDir    string            `koanf:"models_dir"`
	OutputDir    string            `koanf:"output_dir"`
	OutputFormat string            `koanf:"output"`
	Strict       bool              `koanf:"strict"`
	Verbose      bool              `koanf:"verbose"`
	Validation   *ValidationConfig `koanf:"validation"`
}

// Validate checks the configuration for contradictions before any
// command runs with it.
func (c *Config) Validate() error {
	if c.ModelsDir == "" {
		return fmt.Errorf("models_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	switch c.OutputFormat {
	case "text", "json", "md", "markdown":
	default:
		return fmt.Errorf("output format %q is not one of text, json, md", c.OutputFormat)
	}
	if c.Validation != nil {
		if _, err := c.Validation.ToValidatorConfig(); err != nil {
			return err
		}
	}
	return nil
}
