package routes

import (
	"net/http"
	"time"

	"bsg-portal/registry/internal/api"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the full HTTP surface on top of wired dependencies.
// gatherer backs /metrics and must be the registry the metrics were registered on.
func RegisterRoutes(deps *api.Dependencies, gatherer prometheus.Gatherer, allowedOrigins []string, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthCheck", handlers.HealthCheckHandler(upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Local blob backend; the signed token is the only credential.
	r.Get("/storage/v1/object/sign/{bucket}/*", handlers.ServeSignedObject())

	RegisterAPIRoutes(r, deps, handlers)

	logging.Info("Router initialized with metrics and logging middleware")
	return r
}
