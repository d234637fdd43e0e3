package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bsg-portal/registry/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the server and its backing stores are reachable.
// @Tags Misc
// @Success 200 {object} dtos.HealthResponse
// @Failure 503 {object} dtos.HealthResponse
// @Router /healthCheck [get]
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		services := make(map[string]string)

		// Check postgres
		services["postgres"] = "ok"
		if err := h.svc().Dashboard.Ping(ctx); err != nil {
			services["postgres"] = "down: " + err.Error()
		}

		if h.deps.Redis != nil {
			services["redis"] = "ok"
			if err := h.deps.Redis.Ping(ctx).Err(); err != nil {
				services["redis"] = "down: " + err.Error()
			}
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthResponse{
			Status:   overallStatus,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
			Services: services,
		}
		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
