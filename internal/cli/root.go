// Package cli provides the command-line interface for lookgen.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lookgen/internal/cli/commands"
	"github.com/leapstack-labs/lookgen/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lookgen",
		Short: "lookgen - dbt semantic models to LookML",
		Long: `lookgen converts dbt semantic model YAML into Looker view and
explore files.

Before generating anything it validates metric connectivity: every
measure a metric depends on must be joinable to the metric's primary
entity within the configured hop limit.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if cfg.Verbose {
				if used := config.GetConfigFileUsed(); used != "" {
					logger.Debug("using config file", "file", used)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default lookgen.yaml)")
	flags.String("models-dir", "", "directory containing semantic model YAML")
	flags.String("output-dir", "", "directory to write LookML files to")
	flags.StringP("output", "o", "", "output format: text, json, md")
	flags.Bool("strict", false, "treat validation errors as fatal")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		commands.NewValidateCommand(),
		commands.NewGenerateCommand(),
		commands.NewListCommand(),
		commands.NewVersionCommand(Version, BuildDate, GitCommit),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
