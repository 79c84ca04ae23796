package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"assetgallery/internal/httputil"
)

// ReadinessChecker reports whether a backing dependency can serve requests
type ReadinessChecker interface {
	CheckReady(ctx context.Context) error
}

// HealthHandler serves the health endpoint
type HealthHandler struct {
	checker ReadinessChecker // nil when there is nothing to check (memory store)
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker ReadinessChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.checker.CheckReady(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
