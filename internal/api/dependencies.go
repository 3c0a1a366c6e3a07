package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/providers"
	"travel-log/globetrotter/internal/resolver"
	"travel-log/globetrotter/internal/services"
)

type Repositories struct {
	Locations *repositories.LocationRepository
	Trips     *repositories.TripRepository
	Users     *repositories.UserRepositoryGORM
}

type Services struct {
	Cache     common.CacheInterface
	Resolver  *resolver.Resolver
	Locations *services.LocationService
	Trips     *services.TripService
	Guests    *services.GuestStore
	Auth      *services.AuthService
	Airports  *common.AirportLoaderService
	Tokens    *auth.TokenIssuer
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Backends BackendFunc
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires repositories and services. cache backs the resolver;
// metricsReg may be nil.
func InitDependencies(cfg *config.Config, sqlDB *sqlx.DB, ormDB *gorm.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Locations: repositories.NewLocationRepository(sqlDB),
		Trips:     repositories.NewTripRepository(sqlDB),
		Users:     repositories.NewUserRepositoryGORM(ormDB),
	}

	opts := resolver.DefaultOptions()
	opts.SearchTTL = cfg.SearchCacheTTL
	opts.GeocoderTTL = cfg.Geocoder.CacheTTL
	opts.SubQueryTimeout = cfg.Geocoder.Timeout
	opts.MinInterval = cfg.Geocoder.MinInterval
	res := resolver.New(repos.Locations, providers.NewNominatimProvider(cfg.Geocoder), cache, metricsReg, opts)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	locations := services.NewLocationService(repos.Locations, res)
	trips := services.NewTripService(repos.Trips, locations, res, metricsReg)
	// a guest session lives as long as its token
	guests := services.NewGuestStore(cfg.JWTTTL, repos.Locations, metricsReg)

	svcs := &Services{
		Cache:     cache,
		Resolver:  res,
		Locations: locations,
		Trips:     trips,
		Guests:    guests,
		Auth:      services.NewAuthService(repos.Users, tokens, guests, trips),
		Airports:  common.NewAirportLoaderService(ormDB, &http.Client{Timeout: 60 * time.Second}, metricsReg),
		Tokens:    tokens,
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Backends: NewBackendFunc(trips, guests),
		Metrics:  metricsReg,
	}, nil
}
