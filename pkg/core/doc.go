// Package core defines the shared language of the lookgen system.
//
// This package contains:
//   - Domain entities (SemanticModel, Entity, Measure, Metric)
//   - Closed enums for entity kinds, aggregations, and metric types
//   - Diagnostic severity used by validation and reporting
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
