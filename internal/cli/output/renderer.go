// Package output renders command results for terminals, scripts, and
// machine consumers. The renderer adapts to one of three modes: styled
// text for interactive terminals, markdown for piped output, and JSON
// for tooling.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/lookgen/pkg/core"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeText     Mode = "text"
	ModeMarkdown Mode = "md"
	ModeJSON     Mode = "json"
)

// ParseMode normalizes a format string to a Mode, defaulting to text.
func ParseMode(s string) Mode {
	switch s {
	case "json":
		return ModeJSON
	case "md", "markdown":
		return ModeMarkdown
	default:
		return ModeText
	}
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styled bool

	headerStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	warningStyle lipgloss.Style
	successStyle lipgloss.Style
	dimStyle     lipgloss.Style
}

// NewRenderer creates a renderer. Styling is enabled only in text mode
// on a color-capable terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode}
	r.styled = mode == ModeText && isTerminal(out) && termenv.ColorProfile() != termenv.Ascii
	r.headerStyle = lipgloss.NewStyle().Bold(true)
	r.errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	r.warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	r.successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	r.dimStyle = lipgloss.NewStyle().Faint(true)
	return r
}

// Mode returns the renderer's mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Successf prints a success line to stdout.
func (r *Renderer) Successf(format string, args ...any) {
	r.line(r.successStyle, format, args...)
}

// Infof prints an informational line to stdout.
func (r *Renderer) Infof(format string, args ...any) {
	r.line(lipgloss.NewStyle(), format, args...)
}

// Errorf prints an error line to stderr.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.styled {
		msg = r.errorStyle.Render(msg)
	}
	fmt.Fprintln(r.errOut, msg)
}

func (r *Renderer) line(style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.styled {
		msg = style.Render(msg)
	}
	fmt.Fprintln(r.out, msg)
}

// issueJSON is the machine-readable shape of one validation issue.
type issueJSON struct {
	Type              string   `json:"type"`
	Severity          string   `json:"severity"`
	Metric            string   `json:"metric,omitempty"`
	Message           string   `json:"message"`
	Suggestions       []string `json:"suggestions,omitempty"`
	PrimaryEntity     string   `json:"primary_entity,omitempty"`
	Measure           string   `json:"measure,omitempty"`
	Model             string   `json:"model,omitempty"`
	HopCount          int      `json:"hop_count,omitempty"`
	AvailableEntities []string `json:"available_entities,omitempty"`
}

type reportJSON struct {
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Issues   []issueJSON `json:"issues"`
}

// ValidationReport renders all issues grouped by severity, then by
// metric, including each issue's suggestions.
func (r *Renderer) ValidationReport(result *semantic.ValidationResult) error {
	if r.mode == ModeJSON {
		return r.validationJSON(result)
	}

	issues := result.Issues()
	if len(issues) == 0 {
		r.Successf("Validation passed: no issues found")
		return nil
	}

	errs := result.Errors()
	warns := result.Warnings()
	r.line(r.headerStyle, "Validation found %d error(s) and %d warning(s)", len(errs), len(warns))
	fmt.Fprintln(r.out)

	r.renderSummaryTable(issues)

	if len(errs) > 0 {
		r.line(r.errorStyle.Bold(true), "Errors")
		r.renderGroup(errs)
	}
	if len(warns) > 0 {
		r.line(r.warningStyle.Bold(true), "Warnings")
		r.renderGroup(warns)
	}
	return nil
}

func (r *Renderer) renderSummaryTable(issues []semantic.Issue) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Severity", "Metric", "Issue", "Measure", "Model"})
	for _, is := range issues {
		t.AppendRow(table.Row{is.Severity.String(), orDash(is.MetricName), string(is.Type), orDash(is.MeasureName), orDash(is.ModelName)})
	}
	t.SetStyle(table.StyleLight)
	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	fmt.Fprintln(r.out)
}

// renderGroup prints issues of one severity grouped by metric name.
func (r *Renderer) renderGroup(issues []semantic.Issue) {
	byMetric := make(map[string][]semantic.Issue)
	var metrics []string
	for _, is := range issues {
		if _, seen := byMetric[is.MetricName]; !seen {
			metrics = append(metrics, is.MetricName)
		}
		byMetric[is.MetricName] = append(byMetric[is.MetricName], is)
	}
	sort.Strings(metrics)

	for _, metric := range metrics {
		name := metric
		if name == "" {
			name = "(project)"
		}
		fmt.Fprintf(r.out, "  %s:\n", name)
		for _, is := range byMetric[metric] {
			fmt.Fprintf(r.out, "    [%s] %s\n", is.Type, is.Message)
			for _, s := range is.Suggestions {
				line := fmt.Sprintf("      - %s", s)
				if r.styled {
					line = r.dimStyle.Render(line)
				}
				fmt.Fprintln(r.out, line)
			}
		}
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) validationJSON(result *semantic.ValidationResult) error {
	report := reportJSON{
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
		Issues:   []issueJSON{},
	}
	for _, is := range result.Issues() {
		report.Issues = append(report.Issues, issueJSON{
			Type:              string(is.Type),
			Severity:          is.Severity.String(),
			Metric:            is.MetricName,
			Message:           is.Message,
			Suggestions:       is.Suggestions,
			PrimaryEntity:     is.PrimaryEntity,
			Measure:           is.MeasureName,
			Model:             is.ModelName,
			HopCount:          is.HopCount,
			AvailableEntities: is.AvailableEntities,
		})
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ModelTable renders the model listing for the list command.
func (r *Renderer) ModelTable(models []*core.SemanticModel) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Model", "Primary Entity", "Foreign Entities", "Measures"})
	for _, m := range models {
		primary := "-"
		if pe, ok := m.PrimaryEntity(); ok {
			primary = pe.Name
		}
		t.AppendRow(table.Row{m.Name, primary, len(m.ForeignEntities()), len(m.Measures)})
	}
	t.SetStyle(table.StyleLight)
	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
