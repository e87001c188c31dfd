package core

import "strings"

// EntityKind classifies an entity within a semantic model.
type EntityKind string

// Entity kind constants.
const (
	// EntityPrimary is the model's own identity key.
	EntityPrimary EntityKind = "primary"
	// EntityForeign references another model's primary entity.
	EntityForeign EntityKind = "foreign"
	// EntityUnique is a non-primary unique key; it never participates in joins.
	EntityUnique EntityKind = "unique"
)

// ParseEntityKind converts a string to an EntityKind.
// Returns the kind and true if valid, or EntityForeign and false if invalid.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch strings.ToLower(s) {
	case "primary":
		return EntityPrimary, true
	case "foreign":
		return EntityForeign, true
	case "unique":
		return EntityUnique, true
	default:
		return EntityForeign, false
	}
}

// Aggregation is the aggregation function of a measure.
type Aggregation string

// Aggregation constants, matching dbt's measure agg values.
const (
	AggSum           Aggregation = "sum"
	AggCount         Aggregation = "count"
	AggCountDistinct Aggregation = "count_distinct"
	AggAverage       Aggregation = "average"
	AggMin           Aggregation = "min"
	AggMax           Aggregation = "max"
	AggMedian        Aggregation = "median"
	AggSumBoolean    Aggregation = "sum_boolean"
)

// ParseAggregation converts a string to an Aggregation.
// Returns the aggregation and true if valid, or AggCount and false if invalid.
func ParseAggregation(s string) (Aggregation, bool) {
	switch strings.ToLower(s) {
	case "sum":
		return AggSum, true
	case "count":
		return AggCount, true
	case "count_distinct":
		return AggCountDistinct, true
	case "average", "avg":
		return AggAverage, true
	case "min":
		return AggMin, true
	case "max":
		return AggMax, true
	case "median":
		return AggMedian, true
	case "sum_boolean":
		return AggSumBoolean, true
	default:
		return AggCount, false
	}
}

// Entity is a named key-like attribute of a semantic model, tagged with
// its role in join relationships.
type Entity struct {
	// Name is the entity name; foreign entities join to the model that
	// declares the same name as primary.
	Name string
	// Kind is primary, foreign, or unique.
	Kind EntityKind
	// Expr is an optional SQL expression overriding the column reference.
	Expr string
}

// Measure is a named aggregation belonging to exactly one semantic model.
type Measure struct {
	// Name is the measure name, unique within the model.
	Name string
	// Agg is the aggregation function.
	Agg Aggregation
	// Expr is an optional SQL expression; defaults to the measure name.
	Expr string
	// Description is a human-readable description.
	Description string
}

// DimensionType classifies a dimension.
type DimensionType string

// Dimension type constants.
const (
	DimCategorical DimensionType = "categorical"
	DimTime        DimensionType = "time"
)

// Dimension is a non-aggregated attribute of a semantic model.
type Dimension struct {
	Name        string
	Type        DimensionType
	Expr        string
	Description string
}

// SemanticModel is a named, typed description of a data source's
// entities, dimensions, and measures. Immutable once produced by the
// loader and handed to validation/generation.
type SemanticModel struct {
	// Name is the model name (e.g. "orders").
	Name string
	// Description is a human-readable description.
	Description string
	// Table is the underlying relation (sql_table_name in LookML terms).
	Table string
	// FilePath is the YAML file this model was loaded from.
	FilePath string
	// Entities in declaration order.
	Entities []Entity
	// Dimensions in declaration order.
	Dimensions []Dimension
	// Measures in declaration order.
	Measures []Measure
	// Meta contains custom extension fields from the YAML.
	Meta map[string]any
}

// PrimaryEntity returns the model's primary entity, if it declares one.
func (m *SemanticModel) PrimaryEntity() (Entity, bool) {
	for _, e := range m.Entities {
		if e.Kind == EntityPrimary {
			return e, true
		}
	}
	return Entity{}, false
}

// ForeignEntities returns the model's foreign entities in declaration order.
func (m *SemanticModel) ForeignEntities() []Entity {
	var out []Entity
	for _, e := range m.Entities {
		if e.Kind == EntityForeign {
			out = append(out, e)
		}
	}
	return out
}

// Measure returns the named measure, if declared on this model.
func (m *SemanticModel) Measure(name string) (Measure, bool) {
	for _, ms := range m.Measures {
		if ms.Name == name {
			return ms, true
		}
	}
	return Measure{}, false
}
