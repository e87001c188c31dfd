package semantic

import "github.com/leapstack-labs/lookgen/pkg/core"

// IssueType identifies the kind of validation finding. The set is
// closed; switch statements over it should not need a default case
// beyond "unknown".
type IssueType string

// Issue type constants.
const (
	// IssueInvalidPrimaryEntity: an explicit primary_entity override does
	// not name a known primary entity.
	IssueInvalidPrimaryEntity IssueType = "invalid_primary_entity"
	// IssueMissingPrimaryEntity: no override given and no type-based
	// inference possible.
	IssueMissingPrimaryEntity IssueType = "missing_primary_entity"
	// IssueMissingMeasure: a referenced measure is not declared in any model.
	IssueMissingMeasure IssueType = "missing_measure"
	// IssueUnreachableMeasure: the measure's owning model cannot be joined
	// to the primary entity within the hop limit.
	IssueUnreachableMeasure IssueType = "unreachable_measure"
	// IssueExceedsHopLimit: reachable, but deeper than the configured
	// warning depth. Warning only.
	IssueExceedsHopLimit IssueType = "exceeds_hop_limit"
	// IssueUnsupportedMetricType: derived and conversion metrics have no
	// measure-dependency extraction yet. Warning only, never a silent pass.
	IssueUnsupportedMetricType IssueType = "unsupported_metric_type"
	// IssueDuplicateEntity: two models declare the same primary entity name.
	IssueDuplicateEntity IssueType = "duplicate_entity"
	// IssueDuplicateMeasure: two models declare the same measure name.
	IssueDuplicateMeasure IssueType = "duplicate_measure"
)

// Issue is a single validation finding. Issues are created by the
// Validator (or the index builder) and never mutated afterwards.
type Issue struct {
	// Type is the issue kind.
	Type IssueType
	// Severity is error or warning (info is reserved for future use).
	Severity core.Severity
	// MetricName is the metric being validated; empty for index-build issues.
	MetricName string
	// Message is the human-readable description.
	Message string
	// Suggestions are actionable next steps for the user.
	Suggestions []string

	// Contextual fields, populated where they apply.
	PrimaryEntity     string
	MeasureName       string
	ModelName         string
	HopCount          int
	AvailableEntities []string
}

// ValidationResult owns an ordered, append-only sequence of issues
// accumulated across one validation call (single metric or batch).
type ValidationResult struct {
	issues []Issue
}

// NewValidationResult creates an empty result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

// Append adds issues to the result, preserving order.
func (r *ValidationResult) Append(issues ...Issue) {
	r.issues = append(r.issues, issues...)
}

// Issues returns all issues in append order.
func (r *ValidationResult) Issues() []Issue {
	return r.issues
}

// Errors returns only error-severity issues, in append order.
func (r *ValidationResult) Errors() []Issue {
	return r.filter(core.SeverityError)
}

// Warnings returns only warning-severity issues, in append order.
func (r *ValidationResult) Warnings() []Issue {
	return r.filter(core.SeverityWarning)
}

// HasErrors reports whether any error-severity issue was recorded.
// It is the gating signal for strict mode.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors()) > 0
}

// HasWarnings reports whether any warning-severity issue was recorded.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

// MetricHasErrors reports whether the named metric produced any
// error-severity issue. Generation uses this to skip offending metrics
// in non-strict mode.
func (r *ValidationResult) MetricHasErrors(metric string) bool {
	for _, is := range r.issues {
		if is.MetricName == metric && is.Severity == core.SeverityError {
			return true
		}
	}
	return false
}

func (r *ValidationResult) filter(sev core.Severity) []Issue {
	var out []Issue
	for _, is := range r.issues {
		if is.Severity == sev {
			out = append(out, is)
		}
	}
	return out
}
