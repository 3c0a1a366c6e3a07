package dtos

import (
	"time"

	"travel-log/globetrotter/internal/models/entities"
)

// --- Controller endpoints ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type SaveLocationResponse struct {
	ID      int64 `json:"id"`
	Existed bool  `json:"existed"`
}

type CreateTripResponse struct {
	ID              int64   `json:"id"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes *int64  `json:"duration_minutes"`
}

type TripListResponse struct {
	Trips []entities.TripDetail `json:"trips"`
}

type CountriesResponse struct {
	Countries []string `json:"countries"`
}

type UserResponse struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type GuestSessionResponse struct {
	Token     string    `json:"token"`
	GuestID   string    `json:"guest_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type FailedTripMigration struct {
	GuestTripID int64  `json:"guest_trip_id"`
	Name        string `json:"name"`
	Error       string `json:"error"`
}

type PromoteGuestResponse struct {
	AuthResponse
	MigratedTrips int                   `json:"migrated_trips"`
	FailedTrips   []FailedTripMigration `json:"failed_trips,omitempty"`
}

type AirportSyncResponse struct {
	Parsed   int   `json:"parsed"`
	Inserted int64 `json:"inserted"`
}

type FrontendConfigResponse struct {
	MapTilerAPIKey string `json:"maptiler_api_key,omitempty"`
}

// --- GeoJSON ----

type Feature struct {
	Type       string         `json:"type"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// --- Stats ----

type MonthlyDistance struct {
	Month    string  `json:"month"`
	Distance float64 `json:"distance"`
}

type StatsResponse struct {
	Units                string            `json:"units"`
	TotalDistance        float64           `json:"total_distance"`
	TotalTrips           int               `json:"total_trips"`
	TotalDurationMinutes int64             `json:"total_duration_minutes"`
	AverageDistance      float64           `json:"average_distance"`
	TripsByType          map[string]int    `json:"trips_by_type"`
	DistanceByMonth      []MonthlyDistance `json:"distance_by_month"`
	CountriesVisited     int               `json:"countries_visited"`
	CarbonFootprintKg    int64             `json:"carbon_footprint_kg"`
	CarbonByType         map[string]int64  `json:"carbon_by_type"`
	AvailableYears       []string          `json:"available_years"`
}
