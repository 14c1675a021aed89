// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Catalog request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog metrics
	IncCatalogRequest(outcome string)
	ObserveCatalogDuration(duration time.Duration)

	// Cache metrics
	IncCacheHit()
	IncCacheMiss()

	// IncLibraryListFallback counts library lists rendered empty after a failed fetch.
	IncLibraryListFallback()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
