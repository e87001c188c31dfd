package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lookgen/pkg/core"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultModelsDir, cfg.ModelsDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.False(t, cfg.Strict)
}

func TestLoadConfig_FromFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lookgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
models_dir: semantic
output_dir: out
strict: true
validation:
  max_join_hops: 3
  warn_join_depth: 2
  disabled:
    - exceeds_hop_limit
  severity:
    duplicate_measure: error
`), 0o644))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	// Relative paths resolve against the config file's directory.
	assert.Equal(t, filepath.Join(dir, "semantic"), cfg.ModelsDir)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, cfgPath, GetConfigFileUsed())

	require.NotNil(t, cfg.Validation)
	vcfg, err := cfg.Validation.ToValidatorConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, vcfg.MaxJoinHops)
	assert.Equal(t, 2, vcfg.WarnJoinDepth)
	assert.True(t, vcfg.DisabledChecks[semantic.IssueExceedsHopLimit])
	assert.Equal(t, core.SeverityError, vcfg.SeverityOverrides[semantic.IssueDuplicateMeasure])
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lookgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: text\n"), 0o644))

	t.Setenv("LOOKGEN_OUTPUT", "json")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("LOOKGEN_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "text", "")
	require.NoError(t, flags.Parse([]string{"--output", "md"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.OutputFormat)
}

func TestLoadConfig_UnsetFlagsIgnored(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "text", "")
	require.NoError(t, flags.Parse(nil))

	t.Setenv("LOOKGEN_OUTPUT", "json")

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	// The flag default must not shadow the env var.
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestLoadConfig_InvalidOutputFormat(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("LOOKGEN_OUTPUT", "yaml")

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output format")
}

func TestValidationConfig_UnknownSeverity(t *testing.T) {
	v := &ValidationConfig{Severity: map[string]string{"missing_measure": "fatal"}}
	_, err := v.ToValidatorConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestValidationConfig_NilUsesDefaults(t *testing.T) {
	var v *ValidationConfig
	cfg, err := v.ToValidatorConfig()
	require.NoError(t, err)
	assert.Equal(t, semantic.DefaultMaxJoinHops, cfg.MaxJoinHops)
	assert.Equal(t, cfg.MaxJoinHops, cfg.WarnJoinDepth)
}
