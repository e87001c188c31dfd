// Package semantic provides metric connectivity validation over dbt-style
// semantic models.
//
// It answers one question before any LookML is generated: for each metric,
// can every measure it depends on be joined to the metric's primary entity
// within the configured hop limit?
//
// # Components
//
//   - ModelIndex: O(1) lookup from primary-entity or measure name to the
//     owning semantic model, with duplicate-name detection at build time
//   - JoinGraph: breadth-first reachability over foreign-key entity
//     relationships, bounded by a maximum hop count
//   - Validator: the per-metric check sequence producing a ValidationResult
//
// # Basic Usage
//
//	idx := semantic.BuildIndex(models)
//	v := semantic.NewValidator(idx, nil)
//	result, err := v.ValidateMetrics(metrics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.HasErrors() {
//	    // report and abort generation in strict mode
//	}
//
// Validation never mutates its inputs. A Validator is read-only after
// construction and safe for concurrent use across goroutines, as long as
// the model collection it was built from is not mutated concurrently.
package semantic
