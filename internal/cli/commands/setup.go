// Package commands implements the lookgen subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lookgen/internal/cli/config"
	"github.com/leapstack-labs/lookgen/internal/cli/output"
	"github.com/leapstack-labs/lookgen/internal/loader"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext assembles config, logger, and renderer for a command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		// Commands run outside the root's PersistentPreRunE (tests,
		// direct invocation) load configuration themselves.
		var err error
		cfg, err = config.LoadConfig("", nil)
		if err != nil {
			return nil, err
		}
	}
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ParseMode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// loadAndValidate loads the models directory and runs connectivity
// validation over all metrics. Shared by validate and generate.
func (c *CommandContext) loadAndValidate() (*loader.Project, *semantic.Validator, *semantic.ValidationResult, error) {
	project, err := loader.Load(c.Cfg.ModelsDir)
	if err != nil {
		return nil, nil, nil, err
	}
	c.Logger.Debug("loaded project",
		"models", len(project.Models),
		"metrics", len(project.Metrics),
		"files", len(project.Files))

	vcfg, err := c.Cfg.Validation.ToValidatorConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	idx := semantic.BuildIndex(project.Models)
	v := semantic.NewValidator(idx, vcfg)

	result, err := v.ValidateMetrics(project.Metrics)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("validation: %w", err)
	}
	return project, v, result, nil
}
