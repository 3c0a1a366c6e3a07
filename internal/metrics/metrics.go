package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the travel log API
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Geocoder Metrics
	GeocoderRequestsTotal   *prometheus.CounterVec
	GeocoderRequestDuration prometheus.Histogram

	// Business Metrics
	ResolverResultsTotal *prometheus.CounterVec
	TripsCreatedTotal    *prometheus.CounterVec
	AirportsImported     prometheus.Counter
	GuestSessionsActive  prometheus.Gauge
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)
	return &MetricsRegistry{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "travellog_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travellog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		GeocoderRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_geocoder_requests_total",
				Help: "Geocoder sub-queries by outcome (ok, error, timeout)",
			},
			[]string{"outcome"},
		),
		GeocoderRequestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "travellog_geocoder_request_duration_seconds",
				Help:    "Geocoder round trip including the spacing gate wait",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 3},
			},
		),

		ResolverResultsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_resolver_results_total",
				Help: "Search candidates returned by source (local, external, cache)",
			},
			[]string{"source"},
		),
		TripsCreatedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "travellog_trips_created_total",
				Help: "Trips created by trip type and store (db, guest)",
			},
			[]string{"trip_type", "store"},
		),
		AirportsImported: f.NewCounter(
			prometheus.CounterOpts{
				Name: "travellog_airports_imported_total",
				Help: "Airport rows inserted by the OpenFlights import",
			},
		),
		GuestSessionsActive: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "travellog_guest_sessions_active",
				Help: "Guest sessions currently held in memory",
			},
		),
	}
}
