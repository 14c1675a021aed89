package handler

import (
	"fmt"
	"net/http"

	"github.com/shelfview/shelfview/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "shelfview_catalog_requests_total{outcome=\"success\"} %d\n", snap.CatalogSuccess)
	writeMetric(w, "shelfview_catalog_requests_total{outcome=\"not_found\"} %d\n", snap.CatalogNotFound)
	writeMetric(w, "shelfview_catalog_requests_total{outcome=\"error\"} %d\n", snap.CatalogErrors)
	writeMetric(w, "shelfview_catalog_request_duration_seconds_count %d\n", snap.CatalogDurationCount)
	writeMetric(w, "shelfview_catalog_request_duration_seconds_sum %.6f\n", float64(snap.CatalogDurationTotalNs)/1e9)

	writeMetric(w, "shelfview_cache_hits_total %d\n", snap.CacheHits)
	writeMetric(w, "shelfview_cache_misses_total %d\n", snap.CacheMisses)

	writeMetric(w, "shelfview_library_list_fallbacks_total %d\n", snap.LibraryListFallbacks)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
