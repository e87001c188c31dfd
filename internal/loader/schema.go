// Package loader discovers and parses dbt-style semantic model YAML
// files into the typed records consumed by validation and generation.
package loader

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

// schemaFile is the top-level shape of one YAML file. A file may carry
// semantic models, metrics, or both.
type schemaFile struct {
	SemanticModels []semanticModelYAML `yaml:"semantic_models"`
	Metrics        []metricYAML        `yaml:"metrics"`
}

type semanticModelYAML struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Model       string          `yaml:"model"` // ref('orders') or a plain relation name
	Entities    []entityYAML    `yaml:"entities"`
	Dimensions  []dimensionYAML `yaml:"dimensions"`
	Measures    []measureYAML   `yaml:"measures"`
	Meta        map[string]any  `yaml:"meta"`
}

type entityYAML struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Expr string `yaml:"expr"`
}

type dimensionYAML struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Expr        string `yaml:"expr"`
	Description string `yaml:"description"`
}

type measureYAML struct {
	Name        string `yaml:"name"`
	Agg         string `yaml:"agg"`
	Expr        string `yaml:"expr"`
	Description string `yaml:"description"`
}

type metricYAML struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Type        string         `yaml:"type"`
	TypeParams  map[string]any `yaml:"type_params"`
	Meta        map[string]any `yaml:"meta"`
}

// typeParams mirrors core.MetricTypeParams for mapstructure decoding of
// the loosely shaped type_params block.
type typeParams struct {
	Measure     *core.MeasureRef `mapstructure:"measure"`
	Numerator   *core.MeasureRef `mapstructure:"numerator"`
	Denominator *core.MeasureRef `mapstructure:"denominator"`
	Expr        string           `mapstructure:"expr"`
	Metrics     []string         `mapstructure:"metrics"`
}

// refPattern matches dbt ref('model') / ref("model") expressions.
var refPattern = regexp.MustCompile(`^ref\(\s*['"]([^'"]+)['"]\s*\)$`)

// parseFile parses one YAML file's content. The path is used only for
// error context and record provenance.
func parseFile(path string, content []byte) ([]*core.SemanticModel, []*core.Metric, error) {
	var file schemaFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var models []*core.SemanticModel
	for _, raw := range file.SemanticModels {
		m, err := convertModel(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		m.FilePath = path
		models = append(models, m)
	}

	var metrics []*core.Metric
	for _, raw := range file.Metrics {
		m, err := convertMetric(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		m.FilePath = path
		metrics = append(metrics, m)
	}

	return models, metrics, nil
}

func convertModel(raw semanticModelYAML) (*core.SemanticModel, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("semantic model with empty name")
	}

	m := &core.SemanticModel{
		Name:        raw.Name,
		Description: raw.Description,
		Table:       resolveTable(raw.Model, raw.Name),
		Meta:        raw.Meta,
	}

	primaries := 0
	for _, e := range raw.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("model %q: entity with empty name", raw.Name)
		}
		kind, ok := core.ParseEntityKind(e.Type)
		if !ok {
			return nil, fmt.Errorf("model %q: entity %q has unknown type %q", raw.Name, e.Name, e.Type)
		}
		if kind == core.EntityPrimary {
			primaries++
		}
		m.Entities = append(m.Entities, core.Entity{Name: e.Name, Kind: kind, Expr: e.Expr})
	}
	if primaries > 1 {
		return nil, fmt.Errorf("model %q: more than one primary entity", raw.Name)
	}

	for _, d := range raw.Dimensions {
		if d.Name == "" {
			return nil, fmt.Errorf("model %q: dimension with empty name", raw.Name)
		}
		typ := core.DimensionType(strings.ToLower(d.Type))
		if typ == "" {
			typ = core.DimCategorical
		}
		if typ != core.DimCategorical && typ != core.DimTime {
			return nil, fmt.Errorf("model %q: dimension %q has unknown type %q", raw.Name, d.Name, d.Type)
		}
		m.Dimensions = append(m.Dimensions, core.Dimension{
			Name: d.Name, Type: typ, Expr: d.Expr, Description: d.Description,
		})
	}

	for _, ms := range raw.Measures {
		if ms.Name == "" {
			return nil, fmt.Errorf("model %q: measure with empty name", raw.Name)
		}
		agg, ok := core.ParseAggregation(ms.Agg)
		if !ok {
			return nil, fmt.Errorf("model %q: measure %q has unknown agg %q", raw.Name, ms.Name, ms.Agg)
		}
		m.Measures = append(m.Measures, core.Measure{
			Name: ms.Name, Agg: agg, Expr: ms.Expr, Description: ms.Description,
		})
	}

	return m, nil
}

func convertMetric(raw metricYAML) (*core.Metric, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("metric with empty name")
	}
	typ, ok := core.ParseMetricType(raw.Type)
	if !ok {
		return nil, fmt.Errorf("metric %q: unknown type %q", raw.Name, raw.Type)
	}

	params, err := decodeTypeParams(raw.TypeParams)
	if err != nil {
		return nil, fmt.Errorf("metric %q: %w", raw.Name, err)
	}

	// Required sub-fields per declared type; the validator relies on
	// these being present.
	switch typ {
	case core.MetricSimple:
		if params.Measure == nil || params.Measure.Name == "" {
			return nil, fmt.Errorf("metric %q: simple metric requires type_params.measure", raw.Name)
		}
	case core.MetricRatio:
		if params.Numerator == nil || params.Numerator.Name == "" {
			return nil, fmt.Errorf("metric %q: ratio metric requires type_params.numerator", raw.Name)
		}
		if params.Denominator == nil || params.Denominator.Name == "" {
			return nil, fmt.Errorf("metric %q: ratio metric requires type_params.denominator", raw.Name)
		}
	}

	m := &core.Metric{
		Name:        raw.Name,
		Description: raw.Description,
		Type:        typ,
		TypeParams: core.MetricTypeParams{
			Measure:     params.Measure,
			Numerator:   params.Numerator,
			Denominator: params.Denominator,
			Expr:        params.Expr,
			Metrics:     params.Metrics,
		},
		Meta: raw.Meta,
	}

	// The primary-entity override rides on metadata.
	if raw.Meta != nil {
		if pe, ok := raw.Meta["primary_entity"].(string); ok {
			m.PrimaryEntity = pe
		}
	}

	return m, nil
}

// decodeTypeParams decodes the loosely typed type_params block. Measure
// references may be written as a bare string or as {name: ..., filter: ...};
// a decode hook normalizes both to core.MeasureRef.
func decodeTypeParams(raw map[string]any) (*typeParams, error) {
	params := &typeParams{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     params,
		DecodeHook: measureRefHook,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid type_params: %w", err)
	}
	return params, nil
}

// measureRefHook turns a bare string into a MeasureRef during decoding.
func measureRefHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(core.MeasureRef{}) {
		return data, nil
	}
	if s, ok := data.(string); ok {
		return core.MeasureRef{Name: s}, nil
	}
	return data, nil
}

// resolveTable turns a dbt model reference into a relation name.
// ref('orders') becomes "orders"; anything else is taken literally,
// falling back to the semantic model's own name.
func resolveTable(model, fallback string) string {
	model = strings.TrimSpace(model)
	if m := refPattern.FindStringSubmatch(model); m != nil {
		return m[1]
	}
	if model != "" {
		return model
	}
	return fallback
}
