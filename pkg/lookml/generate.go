package lookml

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/lookgen/pkg/core"
	"github.com/leapstack-labs/lookgen/pkg/semantic"
)

// measureTypes maps semantic aggregations to LookML measure types.
var measureTypes = map[core.Aggregation]string{
	core.AggSum:           "sum",
	core.AggCount:         "count",
	core.AggCountDistinct: "count_distinct",
	core.AggAverage:       "average",
	core.AggMin:           "min",
	core.AggMax:           "max",
	core.AggMedian:        "median",
	core.AggSumBoolean:    "sum",
}

// ViewFromModel derives a LookML view from a semantic model.
func ViewFromModel(m *core.SemanticModel) *View {
	v := &View{
		Name:         m.Name,
		Label:        labelFor(m.Name),
		SQLTableName: m.Table,
		Description:  m.Description,
	}

	for _, e := range m.Entities {
		v.Dimensions = append(v.Dimensions, DimensionField{
			Name:       e.Name,
			Label:      labelFor(e.Name),
			Type:       "string",
			SQL:        columnSQL(e.Expr, e.Name),
			PrimaryKey: e.Kind == core.EntityPrimary,
			Hidden:     true,
		})
	}

	for _, d := range m.Dimensions {
		field := DimensionField{
			Name:        d.Name,
			Label:       labelFor(d.Name),
			SQL:         columnSQL(d.Expr, d.Name),
			Description: d.Description,
		}
		switch d.Type {
		case core.DimTime:
			field.Type = "time"
			field.Timeframes = defaultTimeframes
			v.DimensionGroups = append(v.DimensionGroups, field)
		default:
			field.Type = "string"
			v.Dimensions = append(v.Dimensions, field)
		}
	}

	for _, ms := range m.Measures {
		typ, ok := measureTypes[ms.Agg]
		if !ok {
			typ = "count"
		}
		field := MeasureField{
			Name:        ms.Name,
			Label:       labelFor(ms.Name),
			Type:        typ,
			Description: ms.Description,
		}
		// Plain counts count rows; everything else aggregates a column.
		if typ != "count" {
			field.SQL = columnSQL(ms.Expr, ms.Name)
		}
		v.Measures = append(v.Measures, field)
	}

	return v
}

// ExploreFromGraph derives an explore rooted at the graph's base
// entity. The graph's edges form a join tree, so each reachable model
// becomes exactly one join, in BFS discovery order.
//
// Returns an error if the base entity resolves to no model, which the
// caller should have ruled out via validation.
func ExploreFromGraph(g *semantic.JoinGraph, idx *semantic.ModelIndex) (*Explore, error) {
	base, ok := idx.ModelForEntity(g.BaseEntity())
	if !ok {
		return nil, fmt.Errorf("explore for entity %q: no model declares it as primary", g.BaseEntity())
	}

	e := &Explore{
		Name:        base.Name,
		Label:       labelFor(base.Name),
		ViewName:    base.Name,
		Description: base.Description,
	}

	for _, edge := range g.Edges() {
		e.Joins = append(e.Joins, Join{
			View:         edge.ToModel,
			Type:         "left_outer",
			Relationship: "many_to_one",
			SQLOn:        fmt.Sprintf("${%s.%s} = ${%s.%s}", edge.FromModel, edge.Entity, edge.ToModel, edge.Entity),
		})
	}

	return e, nil
}

// Project is the full set of generated LookML, ready to serialize.
type Project struct {
	Views    []*View
	Explores []*Explore
}

// Generate derives views for every model and one explore per distinct
// primary entity among the given metrics. Metrics the validation result
// flags with errors are skipped; callers running in strict mode should
// have aborted before calling Generate.
func Generate(models []*core.SemanticModel, metrics []*core.Metric, v *semantic.Validator, result *semantic.ValidationResult) (*Project, error) {
	p := &Project{}

	for _, m := range models {
		p.Views = append(p.Views, ViewFromModel(m))
	}

	seen := map[string]bool{}
	var entities []string
	for _, m := range metrics {
		if result != nil && result.MetricHasErrors(m.Name) {
			continue
		}
		entity, ok := v.PrimaryEntityFor(m)
		if !ok || seen[entity] {
			continue
		}
		seen[entity] = true
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	for _, entity := range entities {
		explore, err := ExploreFromGraph(v.JoinGraphFor(entity), v.Index())
		if err != nil {
			return nil, err
		}
		p.Explores = append(p.Explores, explore)
	}

	return p, nil
}

// columnSQL renders a ${TABLE}-scoped column reference, preferring an
// explicit expression over the field name.
func columnSQL(expr, name string) string {
	if expr != "" {
		return fmt.Sprintf("${TABLE}.%s", expr)
	}
	return fmt.Sprintf("${TABLE}.%s", name)
}
