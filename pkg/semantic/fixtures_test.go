package semantic

import "github.com/leapstack-labs/lookgen/pkg/core"

// modelSet collects model fixtures into the slice shape BuildIndex takes.
func modelSet(models ...*core.SemanticModel) []*core.SemanticModel {
	return models
}

// newModel builds a semantic model fixture. Entity specs are
// "kind:name" strings; measures are plain names with a count agg.
func newModel(name string, entitySpecs []string, measureNames ...string) *core.SemanticModel {
	m := &core.SemanticModel{Name: name, Table: "analytics." + name}
	for _, spec := range entitySpecs {
		kind, entity := core.EntityForeign, spec
		for i := 0; i < len(spec); i++ {
			if spec[i] == ':' {
				parsed, _ := core.ParseEntityKind(spec[:i])
				kind, entity = parsed, spec[i+1:]
				break
			}
		}
		m.Entities = append(m.Entities, core.Entity{Name: entity, Kind: kind})
	}
	for _, ms := range measureNames {
		m.Measures = append(m.Measures, core.Measure{Name: ms, Agg: core.AggCount})
	}
	return m
}

func simpleMetric(name, measure, primaryEntity string) *core.Metric {
	return &core.Metric{
		Name:          name,
		Type:          core.MetricSimple,
		TypeParams:    core.MetricTypeParams{Measure: &core.MeasureRef{Name: measure}},
		PrimaryEntity: primaryEntity,
	}
}

func ratioMetric(name, numerator, denominator, primaryEntity string) *core.Metric {
	return &core.Metric{
		Name: name,
		Type: core.MetricRatio,
		TypeParams: core.MetricTypeParams{
			Numerator:   &core.MeasureRef{Name: numerator},
			Denominator: &core.MeasureRef{Name: denominator},
		},
		PrimaryEntity: primaryEntity,
	}
}
