package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCatalogRequest is a no-op.
func (n *NoopRecorder) IncCatalogRequest(outcome string) {}

// ObserveCatalogDuration is a no-op.
func (n *NoopRecorder) ObserveCatalogDuration(duration time.Duration) {}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit() {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss() {}

// IncLibraryListFallback is a no-op.
func (n *NoopRecorder) IncLibraryListFallback() {}
