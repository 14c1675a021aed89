package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CatalogSuccess         uint64
	CatalogNotFound        uint64
	CatalogErrors          uint64
	CatalogDurationCount   uint64
	CatalogDurationTotalNs int64
	CacheHits              uint64
	CacheMisses            uint64
	LibraryListFallbacks   uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	catalogSuccess         uint64
	catalogNotFound        uint64
	catalogErrors          uint64
	catalogDurationCount   uint64
	catalogDurationTotalNs int64
	cacheHits              uint64
	cacheMisses            uint64
	libraryListFallbacks   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		CatalogSuccess:         atomic.LoadUint64(&m.catalogSuccess),
		CatalogNotFound:        atomic.LoadUint64(&m.catalogNotFound),
		CatalogErrors:          atomic.LoadUint64(&m.catalogErrors),
		CatalogDurationCount:   atomic.LoadUint64(&m.catalogDurationCount),
		CatalogDurationTotalNs: atomic.LoadInt64(&m.catalogDurationTotalNs),
		CacheHits:              atomic.LoadUint64(&m.cacheHits),
		CacheMisses:            atomic.LoadUint64(&m.cacheMisses),
		LibraryListFallbacks:   atomic.LoadUint64(&m.libraryListFallbacks),
	}
}

// IncCatalogRequest increments the counter for outcome.
// Unknown outcomes are counted as errors.
func (m *InMemoryRecorder) IncCatalogRequest(outcome string) {
	switch outcome {
	case OutcomeSuccess:
		atomic.AddUint64(&m.catalogSuccess, 1)
	case OutcomeNotFound:
		atomic.AddUint64(&m.catalogNotFound, 1)
	default:
		atomic.AddUint64(&m.catalogErrors, 1)
	}
}

// ObserveCatalogDuration records catalog request duration.
func (m *InMemoryRecorder) ObserveCatalogDuration(duration time.Duration) {
	atomic.AddUint64(&m.catalogDurationCount, 1)
	atomic.AddInt64(&m.catalogDurationTotalNs, duration.Nanoseconds())
}

// IncCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCacheHit() {
	atomic.AddUint64(&m.cacheHits, 1)
}

// IncCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss() {
	atomic.AddUint64(&m.cacheMisses, 1)
}

// IncLibraryListFallback increments the library list fallback counter.
func (m *InMemoryRecorder) IncLibraryListFallback() {
	atomic.AddUint64(&m.libraryListFallbacks, 1)
}
