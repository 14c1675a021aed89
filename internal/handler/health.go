package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// readinessTimeout bounds all dependency checks of one /readyz call.
const readinessTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	catalog HealthChecker
	cache   HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for cache when Redis is not configured.
func NewHealthHandler(catalog, cache HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		catalog: catalog,
		cache:   cache,
		logger:  logger,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It checks the catalog API and Redis and returns 200 only if all are healthy.
// Failure details are logged, not returned.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, 2)
	healthy := true

	for name, checker := range map[string]HealthChecker{"catalog": h.catalog, "redis": h.cache} {
		if checker == nil {
			checks[name] = "not configured"
			continue
		}
		if err := checker.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed",
				"request_id", requestIDFrom(r),
				"check", name,
				"error", err,
			)
			checks[name] = "error"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
