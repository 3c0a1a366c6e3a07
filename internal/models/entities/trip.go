package entities

import (
	"time"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/geo"
)

// Trip is a row of the trips table. Dates are "YYYY-MM-DD" and times "HH:MM".
type Trip struct {
	ID                    int64              `db:"id" json:"id"`
	UserID                int64              `db:"user_id" json:"user_id"`
	Name                  string             `db:"name" json:"name"`
	TripType              constants.TripType `db:"trip_type" json:"trip_type"`
	OriginLocationID      int64              `db:"origin_location_id" json:"origin_location_id"`
	DestinationLocationID int64              `db:"destination_location_id" json:"destination_location_id"`
	DepartureDate         *string            `db:"departure_date" json:"departure_date"`
	ArrivalDate           *string            `db:"arrival_date" json:"arrival_date"`
	DepartureTime         *string            `db:"departure_time" json:"departure_time"`
	ArrivalTime           *string            `db:"arrival_time" json:"arrival_time"`
	FlightNumber          string             `db:"flight_number" json:"flight_number,omitempty"`
	TrainNumber           string             `db:"train_number" json:"train_number,omitempty"`
	Airline               string             `db:"airline" json:"airline,omitempty"`
	Operator              string             `db:"operator" json:"operator,omitempty"`
	DistanceKm            float64            `db:"distance_km" json:"distance_km"`
	DurationMinutes       *int64             `db:"duration_minutes" json:"duration_minutes"`
	Notes                 string             `db:"notes" json:"notes,omitempty"`
	CreatedAt             time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `db:"updated_at" json:"updated_at"`
}

// TripDetail is a trip joined with both endpoint locations.
type TripDetail struct {
	Trip

	OriginName        string  `db:"origin_name" json:"origin_name"`
	OriginCity        string  `db:"origin_city" json:"origin_city"`
	OriginCountry     string  `db:"origin_country" json:"origin_country"`
	OriginCountryCode string  `db:"origin_country_code" json:"origin_country_code"`
	OriginLat         float64 `db:"origin_lat" json:"origin_lat"`
	OriginLon         float64 `db:"origin_lon" json:"origin_lon"`

	DestinationName        string  `db:"destination_name" json:"destination_name"`
	DestinationCity        string  `db:"destination_city" json:"destination_city"`
	DestinationCountry     string  `db:"destination_country" json:"destination_country"`
	DestinationCountryCode string  `db:"destination_country_code" json:"destination_country_code"`
	DestinationLat         float64 `db:"destination_lat" json:"destination_lat"`
	DestinationLon         float64 `db:"destination_lon" json:"destination_lon"`
}

func (d TripDetail) Origin() geo.Point {
	return geo.Point{Lat: d.OriginLat, Lon: d.OriginLon}
}

func (d TripDetail) Destination() geo.Point {
	return geo.Point{Lat: d.DestinationLat, Lon: d.DestinationLon}
}

// NewTripDetail joins a trip with already-loaded endpoints.
func NewTripDetail(t Trip, origin, dest Location) TripDetail {
	return TripDetail{
		Trip:                   t,
		OriginName:             origin.Name,
		OriginCity:             origin.City,
		OriginCountry:          origin.Country,
		OriginCountryCode:      origin.CountryCode,
		OriginLat:              origin.Latitude,
		OriginLon:              origin.Longitude,
		DestinationName:        dest.Name,
		DestinationCity:        dest.City,
		DestinationCountry:     dest.Country,
		DestinationCountryCode: dest.CountryCode,
		DestinationLat:         dest.Latitude,
		DestinationLon:         dest.Longitude,
	}
}
