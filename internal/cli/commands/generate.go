package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/lookgen/internal/loader"
	"github.com/leapstack-labs/lookgen/internal/watch"
	"github.com/leapstack-labs/lookgen/pkg/lookml"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	OutputDir string // Override the configured output directory
	Strict    bool   // Abort on validation errors instead of skipping metrics
	Watch     bool   // Re-generate when model files change
}

// manifest records what one generation run produced.
type manifest struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Models      int       `json:"models"`
	Metrics     int       `json:"metrics"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	Files       []string  `json:"files"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate LookML views and explores",
		Long: `Validate metric connectivity and generate LookML files.

In strict mode any validation error aborts generation. Otherwise
offending metrics are skipped with a report and everything else is
generated best-effort.`,
		Example: `  # Generate into the configured output directory
  lookgen generate

  # Abort on any validation error
  lookgen generate --strict

  # Keep regenerating as model files change
  lookgen generate --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutputDir, "out", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "abort on validation errors")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "re-generate when model files change")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	outDir := cmdCtx.Cfg.OutputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}

	if err := generateOnce(cmdCtx, opts, outDir); err != nil {
		return err
	}

	if !opts.Watch {
		return nil
	}

	cmdCtx.Renderer.Infof("Watching %s for changes (ctrl-c to stop)", cmdCtx.Cfg.ModelsDir)
	return watch.Watch(cmd.Context(), cmdCtx.Cfg.ModelsDir, watch.DefaultDebounce, cmdCtx.Logger, func() {
		if err := generateOnce(cmdCtx, opts, outDir); err != nil {
			cmdCtx.Renderer.Errorf("generate: %v", err)
		}
	})
}

func generateOnce(cmdCtx *CommandContext, opts *GenerateOptions, outDir string) error {
	project, v, result, err := cmdCtx.loadAndValidate()
	if err != nil {
		return err
	}

	if result.HasErrors() || result.HasWarnings() {
		if err := cmdCtx.Renderer.ValidationReport(result); err != nil {
			return err
		}
	}
	if result.HasErrors() && (opts.Strict || cmdCtx.Cfg.Strict) {
		return fmt.Errorf("generation aborted: validation failed with %d error(s)", len(result.Errors()))
	}

	p, err := lookml.Generate(project.Models, project.Metrics, v, result)
	if err != nil {
		return err
	}
	files := lookml.Serialize(p)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(files[name]), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		cmdCtx.Logger.Debug("wrote file", "path", path)
	}

	if err := writeManifest(outDir, project, result, names); err != nil {
		return err
	}

	cmdCtx.Renderer.Successf("Generated %d view(s) and %d explore(s) into %s",
		len(p.Views), len(p.Explores), outDir)
	return nil
}

func writeManifest(outDir string, project *loader.Project, result *semantic.ValidationResult, files []string) error {
	m := manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Models:      len(project.Models),
		Metrics:     len(project.Metrics),
		Errors:      len(result.Errors()),
		Warnings:    len(result.Warnings()),
		Files:       files,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "manifest.json"), append(data, '\n'), 0o644)
}
