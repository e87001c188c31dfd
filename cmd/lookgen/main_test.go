// Package main provides tests for the lookgen CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/lookgen/internal/cli"
	"github.com/leapstack-labs/lookgen/internal/cli/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}

	if output := buf.String(); !strings.Contains(output, "lookgen") {
		t.Errorf("version output should contain 'lookgen', got: %s", output)
	}
}

func TestHelpListsCommands(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("help error = %v", err)
	}

	output := buf.String()
	for _, sub := range []string{"validate", "generate", "list"} {
		if !strings.Contains(output, sub) {
			t.Errorf("help output should mention %q, got: %s", sub, output)
		}
	}
}

func TestValidateEndToEnd(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	schema := `
semantic_models:
  - name: rental_orders
    entities:
      - name: rental
        type: primary
      - name: user
        type: foreign
    measures:
      - name: rental_count
        agg: count
  - name: users
    entities:
      - name: user
        type: primary

metrics:
  - name: total_rentals
    type: simple
    type_params:
      measure: rental_count
    meta:
      primary_entity: rental
`
	if err := os.WriteFile(filepath.Join(modelsDir, "schema.yml"), []byte(schema), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"validate", "--models-dir", modelsDir, "--strict"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("validate error = %v, output: %s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Validation passed") {
		t.Errorf("expected a passing report, got: %s", buf.String())
	}
}
