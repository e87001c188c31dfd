package core

import "strings"

// MetricType classifies a metric computation.
type MetricType string

// Metric type constants, matching dbt's metric types.
const (
	MetricSimple     MetricType = "simple"
	MetricRatio      MetricType = "ratio"
	MetricDerived    MetricType = "derived"
	MetricConversion MetricType = "conversion"
)

// ParseMetricType converts a string to a MetricType.
// Returns the type and true if valid, or MetricSimple and false if invalid.
func ParseMetricType(s string) (MetricType, bool) {
	switch strings.ToLower(s) {
	case "simple":
		return MetricSimple, true
	case "ratio":
		return MetricRatio, true
	case "derived":
		return MetricDerived, true
	case "conversion":
		return MetricConversion, true
	default:
		return MetricSimple, false
	}
}

// MeasureRef is a reference to a measure from a metric's type params.
type MeasureRef struct {
	// Name of the referenced measure.
	Name string
	// Filter is an optional SQL filter applied to the measure.
	Filter string
}

// MetricTypeParams holds the type-specific parameters of a metric.
// Which fields are populated depends on the metric's Type.
type MetricTypeParams struct {
	// Measure is the single measure of a simple metric.
	Measure *MeasureRef
	// Numerator and Denominator are the two measures of a ratio metric.
	Numerator   *MeasureRef
	Denominator *MeasureRef
	// Expr and Metrics describe a derived metric. Derived metrics depend
	// on other metrics, not raw measures.
	Expr    string
	Metrics []string
}

// Metric is a named, typed computation built from one or more measures,
// optionally pinned to a primary entity via metadata.
type Metric struct {
	// Name is the metric name.
	Name string
	// Description is a human-readable description.
	Description string
	// Type determines how TypeParams is interpreted.
	Type MetricType
	// TypeParams carries the type-specific measure/metric references.
	TypeParams MetricTypeParams
	// PrimaryEntity is an optional explicit override naming the entity
	// this metric is about. Empty means "infer or fail".
	PrimaryEntity string
	// FilePath is the YAML file this metric was loaded from.
	FilePath string
	// Meta contains custom extension fields from the YAML.
	Meta map[string]any
}

// MeasureRefs returns the raw-measure references of the metric in
// declaration order. Derived and conversion metrics reference other
// metrics rather than measures and return nil.
func (m *Metric) MeasureRefs() []MeasureRef {
	switch m.Type {
	case MetricSimple:
		if m.TypeParams.Measure != nil {
			return []MeasureRef{*m.TypeParams.Measure}
		}
	case MetricRatio:
		var refs []MeasureRef
		if m.TypeParams.Numerator != nil {
			refs = append(refs, *m.TypeParams.Numerator)
		}
		if m.TypeParams.Denominator != nil {
			refs = append(refs, *m.TypeParams.Denominator)
		}
		return refs
	}
	return nil
}
