package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/fitgoals/internal/respond"
)

// HealthCheck pings the backing store.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	check HealthCheck
}

func NewHealthHandler(check HealthCheck) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		err := h.check(ctx)
		if err != nil {
			slog.Error("health check failed", "error", err)
			respond.Error(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable")
			return
		}
	}

	respond.JSON(w, http.StatusOK, "ok", nil)
}
