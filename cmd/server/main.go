package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"travel-log/globetrotter/internal/api"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/db"
	"travel-log/globetrotter/internal/jobs"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/routes"
	"travel-log/globetrotter/internal/workers"
)

// @title Globetrotter API
// @version 1.0
// @description Travel log backend: location search, trips, routes and statistics.
// @host localhost:8080
// @BasePath /
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Globetrotter starting up",
		"environment", cfg.AppEnv,
		"cache_backend", cfg.CacheBackend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to DB with sqlx
	if err := db.InitPostgres(cfg.Postgres); err != nil {
		logging.Fatal("Failed to connect to Postgres (sqlx)", "error", err)
	}
	defer db.DB.Close()
	logging.Info("Connected to Postgres (sqlx)")

	if err := db.Migrate(ctx, db.DB.DB); err != nil {
		logging.Fatal("Failed to apply migrations", "error", err)
	}

	// GORM shares the sqlx pool
	ormDB, err := db.InitPostgresORM(db.DB.DB)
	if err != nil {
		logging.Fatal("Failed to connect to Postgres (GORM)", "error", err)
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	var cache common.CacheInterface
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		cache = common.NewRedisCacheService(common.NewRedisClient(cfg.Redis))
	default:
		cache = common.NewCacheService(cfg.SearchCacheTTL, 10*time.Minute)
	}
	defer cache.Close()

	deps, err := api.InitDependencies(cfg, db.DB, ormDB, cache, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err)
	}

	jobs.InitializeJobs(ctx, deps.Services.Airports, cfg.AirportsURL, cfg.SeedAirportsOnStart)
	workers.InitWorkers(ctx, deps.Services.Guests, metricsReg)

	router := routes.RegisterRoutes(deps, db.DB, promhttp.Handler(), time.Now())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
	logging.Info("Server stopped")
}
