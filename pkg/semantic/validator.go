package semantic

import (
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

// maxMeasureExamples caps how many available measure names a
// missing_measure issue lists before summarizing the remainder.
const maxMeasureExamples = 10

// ValidatorConfig holds configuration for the connectivity validator.
type ValidatorConfig struct {
	// MaxJoinHops is the hard BFS traversal ceiling.
	MaxJoinHops int

	// WarnJoinDepth is the soft depth above which reachable measures
	// produce an exceeds_hop_limit warning. It is decoupled from
	// MaxJoinHops so callers can warn below the hard cutoff.
	WarnJoinDepth int

	// DisabledChecks contains issue types to skip entirely.
	DisabledChecks map[IssueType]bool

	// SeverityOverrides changes the default severity of issue types.
	SeverityOverrides map[IssueType]core.Severity
}

// NewValidatorConfig creates a default configuration.
func NewValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		MaxJoinHops:       DefaultMaxJoinHops,
		WarnJoinDepth:     DefaultMaxJoinHops,
		DisabledChecks:    make(map[IssueType]bool),
		SeverityOverrides: make(map[IssueType]core.Severity),
	}
}

// Validator checks that every measure a metric depends on is reachable
// from the metric's primary entity. It is read-only after construction;
// build a new Validator when the model set changes.
type Validator struct {
	idx *ModelIndex
	cfg *ValidatorConfig

	mu     sync.Mutex
	graphs map[string]*JoinGraph // cache keyed by base entity
}

// NewValidator creates a validator over a pre-built index. A nil config
// uses defaults.
func NewValidator(idx *ModelIndex, cfg *ValidatorConfig) *Validator {
	if cfg == nil {
		cfg = NewValidatorConfig()
	}
	if cfg.MaxJoinHops < 1 {
		cfg.MaxJoinHops = DefaultMaxJoinHops
	}
	if cfg.WarnJoinDepth < 1 {
		cfg.WarnJoinDepth = cfg.MaxJoinHops
	}
	return &Validator{
		idx:    idx,
		cfg:    cfg,
		graphs: make(map[string]*JoinGraph),
	}
}

// Index returns the model index the validator was built over.
func (v *Validator) Index() *ModelIndex {
	return v.idx
}

// JoinGraphFor returns the (cached) join graph rooted at the given
// entity. Generation reuses these graphs to derive explore joins.
func (v *Validator) JoinGraphFor(baseEntity string) *JoinGraph {
	v.mu.Lock()
	defer v.mu.Unlock()
	g, ok := v.graphs[baseEntity]
	if !ok {
		g = BuildJoinGraph(baseEntity, v.idx, v.cfg.MaxJoinHops)
		v.graphs[baseEntity] = g
	}
	return g
}

// ValidateMetric validates a single metric. Bad configuration becomes
// issues on the result; a non-nil error is returned only for contract
// violations in the input (nil metric, missing required type params),
// which indicate a bug in the loading layer rather than a user mistake.
func (v *Validator) ValidateMetric(metric *core.Metric) (*ValidationResult, error) {
	result := NewValidationResult()
	if err := v.validateInto(result, metric); err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateMetrics validates a batch of metrics into one result. Issues
// detected at index build time (duplicate names) are included first.
// Every metric is validated regardless of earlier metrics' failures;
// fail-fast applies only within a single metric's check sequence.
func (v *Validator) ValidateMetrics(metrics []*core.Metric) (*ValidationResult, error) {
	result := NewValidationResult()
	for _, issue := range v.idx.Issues() {
		v.emit(result, issue)
	}
	for _, m := range metrics {
		if err := v.validateInto(result, m); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// validateInto runs the per-metric check sequence. Each "return nil"
// after an emit is a stop point: later checks are meaningless once an
// earlier one has failed for this metric.
func (v *Validator) validateInto(result *ValidationResult, metric *core.Metric) error {
	if metric == nil {
		return fmt.Errorf("validate: nil metric")
	}
	if metric.Name == "" {
		return fmt.Errorf("validate: metric with empty name (file %s)", metric.FilePath)
	}

	switch metric.Type {
	case core.MetricDerived, core.MetricConversion:
		// Dependency extraction for these types needs metric-to-metric
		// resolution that does not exist yet. Surface that instead of
		// silently passing.
		v.emit(result, Issue{
			Type:       IssueUnsupportedMetricType,
			Severity:   core.SeverityWarning,
			MetricName: metric.Name,
			Message: fmt.Sprintf("metric %q has type %q, which connectivity validation does not support yet; it was not checked",
				metric.Name, metric.Type),
			Suggestions: []string{
				"validate the component metrics individually",
			},
		})
		return nil
	case core.MetricSimple:
		if metric.TypeParams.Measure == nil {
			return fmt.Errorf("validate: simple metric %q has no measure", metric.Name)
		}
	case core.MetricRatio:
		if metric.TypeParams.Numerator == nil || metric.TypeParams.Denominator == nil {
			return fmt.Errorf("validate: ratio metric %q is missing numerator or denominator", metric.Name)
		}
	default:
		return fmt.Errorf("validate: metric %q has unknown type %q", metric.Name, metric.Type)
	}

	refs := metric.MeasureRefs()

	// Step 1: resolve the primary entity.
	primary := metric.PrimaryEntity
	if primary != "" {
		if _, ok := v.idx.ModelForEntity(primary); !ok {
			v.emit(result, Issue{
				Type:       IssueInvalidPrimaryEntity,
				Severity:   core.SeverityError,
				MetricName: metric.Name,
				Message: fmt.Sprintf("metric %q declares primary entity %q, but no model declares that entity as primary",
					metric.Name, primary),
				Suggestions: []string{
					fmt.Sprintf("pick one of the known primary entities: %s", strings.Join(v.idx.EntityNames(), ", ")),
				},
				PrimaryEntity:     primary,
				AvailableEntities: v.idx.EntityNames(),
			})
			return nil
		}
	} else if metric.Type == core.MetricRatio {
		primary = v.inferRatioEntity(metric)
	}
	if primary == "" {
		v.emit(result, v.missingPrimaryEntity(metric, refs))
		return nil
	}

	// Step 2: every referenced measure must exist somewhere before
	// connectivity can be checked.
	var missing []string
	for _, ref := range refs {
		if _, ok := v.idx.ModelForMeasure(ref.Name); !ok {
			missing = append(missing, ref.Name)
		}
	}
	if len(missing) > 0 {
		for _, name := range missing {
			v.emit(result, v.missingMeasure(metric, name))
		}
		return nil
	}

	// Step 3: reachability from the primary entity.
	graph := v.JoinGraphFor(primary)
	baseModel, _ := v.idx.ModelForEntity(primary)

	for _, ref := range refs {
		owner, _ := v.idx.ModelForMeasure(ref.Name)
		hops, reachable := graph.ModelHops(owner.Name)
		if !reachable {
			v.emit(result, Issue{
				Type:       IssueUnreachableMeasure,
				Severity:   core.SeverityError,
				MetricName: metric.Name,
				Message: fmt.Sprintf("measure %q lives on model %q, which cannot be joined to entity %q (model %q) within %d hops",
					ref.Name, owner.Name, primary, baseModel.Name, graph.MaxHops()),
				Suggestions: []string{
					fmt.Sprintf("change the metric's primary entity to one reachable from model %q", owner.Name),
					fmt.Sprintf("add a foreign entity linking %q toward %q", baseModel.Name, owner.Name),
					"consider a derived table that pre-joins the required models",
				},
				PrimaryEntity: primary,
				MeasureName:   ref.Name,
				ModelName:     owner.Name,
			})
			continue
		}
		if hops > v.cfg.WarnJoinDepth {
			v.emit(result, Issue{
				Type:       IssueExceedsHopLimit,
				Severity:   core.SeverityWarning,
				MetricName: metric.Name,
				Message: fmt.Sprintf("measure %q on model %q is %d hops from entity %q; joins deeper than %d can hurt query performance",
					ref.Name, owner.Name, hops, primary, v.cfg.WarnJoinDepth),
				Suggestions: []string{
					"consider a derived table to shorten the join path",
				},
				PrimaryEntity: primary,
				MeasureName:   ref.Name,
				ModelName:     owner.Name,
				HopCount:      hops,
			})
		}
	}

	return nil
}

// inferRatioEntity is the only automatic inference path: the
// denominator's model anchors a ratio metric. Returns "" when the
// denominator's measure or its model's primary entity is unknown.
func (v *Validator) inferRatioEntity(metric *core.Metric) string {
	if metric.TypeParams.Denominator == nil {
		return ""
	}
	owner, ok := v.idx.ModelForMeasure(metric.TypeParams.Denominator.Name)
	if !ok {
		return ""
	}
	pe, ok := owner.PrimaryEntity()
	if !ok {
		return ""
	}
	return pe.Name
}

// PrimaryEntityFor resolves a metric's primary entity the same way
// validation does: an explicit override wins if it names a known
// primary entity, otherwise ratio metrics infer from their
// denominator. Generation uses this to pick explore roots.
func (v *Validator) PrimaryEntityFor(metric *core.Metric) (string, bool) {
	if metric == nil {
		return "", false
	}
	if metric.PrimaryEntity != "" {
		if _, ok := v.idx.ModelForEntity(metric.PrimaryEntity); ok {
			return metric.PrimaryEntity, true
		}
		return "", false
	}
	if metric.Type == core.MetricRatio {
		if e := v.inferRatioEntity(metric); e != "" {
			return e, true
		}
	}
	return "", false
}

func (v *Validator) missingPrimaryEntity(metric *core.Metric, refs []core.MeasureRef) Issue {
	var owners []string
	for _, ref := range refs {
		owner, ok := v.idx.ModelForMeasure(ref.Name)
		if !ok {
			owners = append(owners, fmt.Sprintf("measure %q: unknown model", ref.Name))
			continue
		}
		if pe, ok := owner.PrimaryEntity(); ok {
			owners = append(owners, fmt.Sprintf("measure %q belongs to model %q (primary entity %q)", ref.Name, owner.Name, pe.Name))
		} else {
			owners = append(owners, fmt.Sprintf("measure %q belongs to model %q (no primary entity)", ref.Name, owner.Name))
		}
	}
	msg := fmt.Sprintf("metric %q has no primary entity and type %q cannot infer one", metric.Name, metric.Type)
	if len(owners) > 0 {
		msg += "; " + strings.Join(owners, "; ")
	}
	return Issue{
		Type:       IssueMissingPrimaryEntity,
		Severity:   core.SeverityError,
		MetricName: metric.Name,
		Message:    msg,
		Suggestions: []string{
			fmt.Sprintf("set an explicit primary entity on metric %q, e.g. meta: {primary_entity: <entity>}", metric.Name),
		},
	}
}

func (v *Validator) missingMeasure(metric *core.Metric, name string) Issue {
	available := v.idx.MeasureNames()
	examples := available
	var remainder int
	if len(examples) > maxMeasureExamples {
		remainder = len(examples) - maxMeasureExamples
		examples = examples[:maxMeasureExamples]
	}
	suggestion := fmt.Sprintf("available measures include: %s", strings.Join(examples, ", "))
	if remainder > 0 {
		suggestion += fmt.Sprintf(" (and %d more)", remainder)
	}
	return Issue{
		Type:       IssueMissingMeasure,
		Severity:   core.SeverityError,
		MetricName: metric.Name,
		Message:    fmt.Sprintf("metric %q references measure %q, which no model declares", metric.Name, name),
		Suggestions: []string{
			suggestion,
		},
		MeasureName: name,
	}
}

// emit applies disabled-check filtering and severity overrides before
// appending the issue to the result.
func (v *Validator) emit(result *ValidationResult, issue Issue) {
	if v.cfg.DisabledChecks[issue.Type] {
		return
	}
	if sev, ok := v.cfg.SeverityOverrides[issue.Type]; ok {
		issue.Severity = sev
	}
	result.Append(issue)
}
