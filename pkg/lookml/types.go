package lookml

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DimensionField is a LookML dimension or dimension_group.
type DimensionField struct {
	Name        string
	Label       string
	Type        string // string, number, time
	SQL         string
	Description string
	PrimaryKey  bool
	Hidden      bool
	// Timeframes is set only on dimension_groups.
	Timeframes []string
}

// MeasureField is a LookML measure.
type MeasureField struct {
	Name        string
	Label       string
	Type        string // count, sum, average, ...
	SQL         string // empty for plain counts
	Description string
}

// View is one LookML view, derived from one semantic model.
type View struct {
	Name            string
	Label           string
	SQLTableName    string
	Description     string
	Dimensions      []DimensionField
	DimensionGroups []DimensionField
	Measures        []MeasureField
}

// Join is one join block inside an explore.
type Join struct {
	View         string
	Type         string // left_outer
	Relationship string // many_to_one
	SQLOn        string
}

// Explore is one LookML explore rooted at a base view, joined along the
// validated join tree.
type Explore struct {
	Name        string
	Label       string
	ViewName    string
	Description string
	Joins       []Join
}

var titleCaser = cases.Title(language.English)

// labelFor turns a snake_case identifier into a human-facing label.
func labelFor(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// defaultTimeframes are the dimension_group timeframes emitted for time
// dimensions.
var defaultTimeframes = []string{"raw", "date", "week", "month", "quarter", "year"}
