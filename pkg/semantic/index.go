package semantic

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

// ModelIndex provides O(1) lookup from a primary-entity or measure name
// to the semantic model that owns it. It is built once from the full
// model collection and read-only thereafter; if the model set changes,
// build a new index.
type ModelIndex struct {
	entityOwner  map[string]*core.SemanticModel
	measureOwner map[string]*core.SemanticModel
	issues       []Issue
}

// BuildIndex builds a ModelIndex from the full collection of semantic models.
//
// Duplicate primary-entity or measure names across models are a modeling
// mistake; they are recorded as warning issues (retrievable via Issues)
// and resolved first-write-wins so lookups stay deterministic.
func BuildIndex(models []*core.SemanticModel) *ModelIndex {
	idx := &ModelIndex{
		entityOwner:  make(map[string]*core.SemanticModel),
		measureOwner: make(map[string]*core.SemanticModel),
	}

	for _, m := range models {
		for _, e := range m.Entities {
			if e.Kind != core.EntityPrimary {
				continue
			}
			if prev, exists := idx.entityOwner[e.Name]; exists {
				idx.issues = append(idx.issues, Issue{
					Type:     IssueDuplicateEntity,
					Severity: core.SeverityWarning,
					Message: fmt.Sprintf("primary entity %q is declared by both %q and %q; %q wins",
						e.Name, prev.Name, m.Name, prev.Name),
					Suggestions: []string{
						fmt.Sprintf("rename the primary entity in one of %q or %q", prev.Name, m.Name),
					},
					PrimaryEntity: e.Name,
					ModelName:     m.Name,
				})
				continue
			}
			idx.entityOwner[e.Name] = m
		}

		for _, ms := range m.Measures {
			if prev, exists := idx.measureOwner[ms.Name]; exists {
				idx.issues = append(idx.issues, Issue{
					Type:     IssueDuplicateMeasure,
					Severity: core.SeverityWarning,
					Message: fmt.Sprintf("measure %q is declared by both %q and %q; %q wins",
						ms.Name, prev.Name, m.Name, prev.Name),
					Suggestions: []string{
						fmt.Sprintf("rename the measure in one of %q or %q", prev.Name, m.Name),
					},
					MeasureName: ms.Name,
					ModelName:   m.Name,
				})
				continue
			}
			idx.measureOwner[ms.Name] = m
		}
	}

	return idx
}

// ModelForEntity returns the model declaring the named entity as primary.
func (idx *ModelIndex) ModelForEntity(name string) (*core.SemanticModel, bool) {
	m, ok := idx.entityOwner[name]
	return m, ok
}

// ModelForMeasure returns the model declaring the named measure.
func (idx *ModelIndex) ModelForMeasure(name string) (*core.SemanticModel, bool) {
	m, ok := idx.measureOwner[name]
	return m, ok
}

// EntityNames returns all known primary entity names, sorted.
func (idx *ModelIndex) EntityNames() []string {
	names := make([]string, 0, len(idx.entityOwner))
	for name := range idx.entityOwner {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MeasureNames returns all known measure names, sorted.
func (idx *ModelIndex) MeasureNames() []string {
	names := make([]string, 0, len(idx.measureOwner))
	for name := range idx.measureOwner {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Issues returns the duplicate-name issues detected at build time.
func (idx *ModelIndex) Issues() []Issue {
	return idx.issues
}
