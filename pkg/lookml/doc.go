// Package lookml derives LookML views and explores from semantic models
// and serializes them to LookML source text.
//
// Views map one-to-one onto semantic models: entities become key
// dimensions, categorical dimensions become dimensions, time dimensions
// become dimension_groups, and measures become measures. Explores are
// rooted at a metric's primary entity; their joins follow the join tree
// computed by pkg/semantic's reachability graph, so an explore never
// contains a join the connectivity validator would reject.
package lookml
