package semantic

import (
	"sort"

	"github.com/leapstack-labs/lookgen/pkg/core"
)

// DefaultMaxJoinHops is the conventional dbt join-depth ceiling.
const DefaultMaxJoinHops = 2

// JoinEdge records how a model was first reached during traversal:
// the foreign entity on FromModel joining to ToModel's primary entity.
type JoinEdge struct {
	// Entity is the shared entity name (foreign on FromModel, primary on ToModel).
	Entity string
	// FromModel is the model declaring the foreign entity.
	FromModel string
	// ToModel is the model reached through the join.
	ToModel string
	// Hops is the depth at which ToModel was discovered (>= 1).
	Hops int
}

// JoinGraph answers "is model M reachable from base entity E within N
// foreign-key hops, and in how many hops?". It is built fresh per
// validated metric, or cached per base entity by the caller.
//
// BFS guarantees minimum-hop semantics: the first time a model is
// reached is via a shortest path, and revisits are never recorded.
type JoinGraph struct {
	baseEntity        string
	maxHops           int
	reachableModels   map[string]int
	reachableEntities map[string]int
	edges             []JoinEdge
}

// BuildJoinGraph computes reachability from baseEntity over the indexed
// models, bounded by maxHops foreign-key traversal steps. A maxHops
// below 1 falls back to DefaultMaxJoinHops.
//
// If no model declares baseEntity as primary, the returned graph is
// empty; detecting that condition is the caller's responsibility.
func BuildJoinGraph(baseEntity string, idx *ModelIndex, maxHops int) *JoinGraph {
	if maxHops < 1 {
		maxHops = DefaultMaxJoinHops
	}
	g := &JoinGraph{
		baseEntity:        baseEntity,
		maxHops:           maxHops,
		reachableModels:   make(map[string]int),
		reachableEntities: make(map[string]int),
	}

	base, ok := idx.ModelForEntity(baseEntity)
	if !ok {
		return g
	}

	// Reflexive case: the base model's own measures are always reachable.
	g.reachableModels[base.Name] = 0
	g.reachableEntities[baseEntity] = 0

	type item struct {
		model *core.SemanticModel
		depth int
	}
	queue := []item{{model: base, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxHops {
			continue
		}

		for _, e := range cur.model.ForeignEntities() {
			target, ok := idx.ModelForEntity(e.Name)
			if !ok {
				// Dangling foreign key; nothing to join to.
				continue
			}
			if _, visited := g.reachableModels[target.Name]; visited {
				continue
			}
			depth := cur.depth + 1
			g.reachableModels[target.Name] = depth
			if _, seen := g.reachableEntities[e.Name]; !seen {
				g.reachableEntities[e.Name] = depth
			}
			g.edges = append(g.edges, JoinEdge{
				Entity:    e.Name,
				FromModel: cur.model.Name,
				ToModel:   target.Name,
				Hops:      depth,
			})
			queue = append(queue, item{model: target, depth: depth})
		}
	}

	return g
}

// BaseEntity returns the entity the graph is rooted at.
func (g *JoinGraph) BaseEntity() string {
	return g.baseEntity
}

// MaxHops returns the traversal ceiling the graph was built with.
func (g *JoinGraph) MaxHops() int {
	return g.maxHops
}

// ModelHops reports whether the named model is reachable and at what
// depth. Absence means "not reachable"; there is no sentinel value.
func (g *JoinGraph) ModelHops(name string) (int, bool) {
	hops, ok := g.reachableModels[name]
	return hops, ok
}

// EntityHops reports whether the named entity was crossed during
// traversal and at what depth.
func (g *JoinGraph) EntityHops(name string) (int, bool) {
	hops, ok := g.reachableEntities[name]
	return hops, ok
}

// Empty reports whether nothing is reachable, which happens exactly
// when no model declares the base entity as primary.
func (g *JoinGraph) Empty() bool {
	return len(g.reachableModels) == 0
}

// ReachableModels returns the reachable model names, sorted.
func (g *JoinGraph) ReachableModels() []string {
	names := make([]string, 0, len(g.reachableModels))
	for name := range g.reachableModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns the join edges in discovery (BFS) order. Each reachable
// model other than the base appears as ToModel of exactly one edge, so
// the edges form a join tree suitable for explore generation.
func (g *JoinGraph) Edges() []JoinEdge {
	return g.edges
}
