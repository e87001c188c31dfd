package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lookgen/internal/loader"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List semantic models",
		Long:  `List all loaded semantic models with their entities and measure counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			project, err := loader.Load(cmdCtx.Cfg.ModelsDir)
			if err != nil {
				return err
			}

			cmdCtx.Renderer.ModelTable(project.Models)
			return nil
		},
	}
}
