// Package config reads service settings from the environment, after loading
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// DSN is the URL form accepted by both lib/pq and the gorm postgres driver.
func (p Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Redis struct {
	Host     string
	Port     string
	Password string
}

func (r Redis) Addr() string { return r.Host + ":" + r.Port }

type Geocoder struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
	CacheTTL    time.Duration
}

type Config struct {
	AppEnv string
	Port   string

	Postgres Postgres
	Redis    Redis
	Geocoder Geocoder

	JWTSecret string
	JWTTTL    time.Duration

	SearchCacheTTL time.Duration
	CacheBackend   string

	CORSOrigins []string
	AdminEmails []string
	// TrustProxy takes the client address from forwarding headers. Enable it
	// only behind a reverse proxy that overwrites them.
	TrustProxy bool

	AirportsURL         string
	SeedAirportsOnStart bool
	MapTilerAPIKey      string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		Postgres: Postgres{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			User:     getEnv("PG_USER", "postgres"),
			Password: getEnv("PG_PASSWORD", ""),
			DB:       getEnv("PG_DB", "travel_log"),
			SSLMode:  getEnv("PG_SSLMODE", "disable"),
		},
		Redis: Redis{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Geocoder: Geocoder{
			BaseURL:     strings.TrimRight(getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"), "/"),
			UserAgent:   getEnv("GEOCODER_USER_AGENT", "globetrotter-travel-log/1.0"),
			Timeout:     getDuration("GEOCODER_TIMEOUT", 2*time.Second),
			MinInterval: getDuration("GEOCODER_MIN_INTERVAL", time.Second),
			CacheTTL:    getDuration("GEOCODER_CACHE_TTL", 24*time.Hour),
		},
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTTTL:              getDuration("JWT_TTL", 24*time.Hour),
		SearchCacheTTL:      getDuration("SEARCH_CACHE_TTL", time.Hour),
		CacheBackend:        strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		CORSOrigins:         getList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		AdminEmails:         getList("ADMIN_EMAILS", nil),
		TrustProxy:          getBool("TRUST_PROXY", false),
		AirportsURL:         getEnv("AIRPORTS_URL", "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"),
		SeedAirportsOnStart: getBool("SEED_AIRPORTS_ON_START", true),
		MapTilerAPIKey:      os.Getenv("MAPTILER_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.AppEnv == "production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWTSecret = "dev-only-secret"
	}
	if c.CacheBackend != CacheBackendMemory && c.CacheBackend != CacheBackendRedis {
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.CacheBackend)
	}
	return nil
}

// IsAdmin reports whether email is on the ADMIN_EMAILS allow-list.
func (c *Config) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
