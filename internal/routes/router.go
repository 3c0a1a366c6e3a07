package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"travel-log/globetrotter/internal/api"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/middleware"
)

// RegisterRoutes builds the chi router. metricsHandler serves /metrics and
// db backs the health check.
func RegisterRoutes(deps *api.Dependencies, db api.Pinger, metricsHandler http.Handler, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	// global middleware
	if deps.Config.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Accept-Language"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(db, upSince))
	r.Handle("/metrics", metricsHandler)

	RegisterAPIRoutes(r, deps)

	logging.Info("Router initialized", "cors_origins", deps.Config.CORSOrigins)
	return r
}
