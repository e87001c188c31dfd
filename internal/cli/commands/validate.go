package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lookgen/internal/cli/output"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format string // Output format override: text, json, md
	Strict bool   // Exit non-zero on validation errors
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate metric connectivity",
		Long: `Check that every metric's measures are reachable from its primary
entity through foreign-key joins, within the configured hop limit.

All problems across all metrics are reported in one pass; validation
never stops at the first failing metric.`,
		Example: `  # Validate all metrics
  lookgen validate

  # Machine-readable report
  lookgen validate --format json

  # Fail the build on any error
  lookgen validate --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: text, json, md")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit non-zero on validation errors")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ParseMode(opts.Format))
	}

	_, _, result, err := cmdCtx.loadAndValidate()
	if err != nil {
		return err
	}

	if err := r.ValidationReport(result); err != nil {
		return err
	}

	if result.HasErrors() && (opts.Strict || cmdCtx.Cfg.Strict) {
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors()))
	}
	return nil
}
