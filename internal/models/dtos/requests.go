package dtos

import (
	"strings"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/entities"
)

// SaveLocationRequest carries a selected search candidate back to the API.
// Code is the generic carrier code from search results; it lands in
// airport_code for airports and station_code for everything else.
type SaveLocationRequest struct {
	Name         string                 `json:"name"`
	City         string                 `json:"city"`
	Country      string                 `json:"country"`
	CountryCode  string                 `json:"country_code"`
	LocationType constants.LocationType `json:"location_type"`
	Code         string                 `json:"code,omitempty"`
	AirportCode  string                 `json:"airport_code,omitempty"`
	StationCode  string                 `json:"station_code,omitempty"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	Timezone     string                 `json:"timezone,omitempty"`
}

func (r SaveLocationRequest) ToLocation() entities.Location {
	loc := entities.Location{
		Name:         strings.TrimSpace(r.Name),
		City:         strings.TrimSpace(r.City),
		Country:      strings.TrimSpace(r.Country),
		CountryCode:  strings.ToUpper(strings.TrimSpace(r.CountryCode)),
		LocationType: r.LocationType,
		AirportCode:  strings.ToUpper(strings.TrimSpace(r.AirportCode)),
		StationCode:  strings.ToUpper(strings.TrimSpace(r.StationCode)),
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		Timezone:     r.Timezone,
	}
	if loc.LocationType == "" {
		loc.LocationType = constants.LocationOther
	}
	if code := strings.ToUpper(strings.TrimSpace(r.Code)); code != "" {
		if loc.LocationType == constants.LocationAirport && loc.AirportCode == "" {
			loc.AirportCode = code
		} else if loc.LocationType != constants.LocationAirport && loc.StationCode == "" {
			loc.StationCode = code
		}
	}
	return loc
}

// TripEndpoint is either an existing location id or inline location details.
type TripEndpoint struct {
	ID       *int64               `json:"id,omitempty"`
	Location *SaveLocationRequest `json:"location,omitempty"`
}

type CreateTripRequest struct {
	Name     string             `json:"name"`
	TripType constants.TripType `json:"trip_type"`

	OriginLocationID      *int64        `json:"origin_location_id,omitempty"`
	DestinationLocationID *int64        `json:"destination_location_id,omitempty"`
	Origin                *TripEndpoint `json:"origin,omitempty"`
	Destination           *TripEndpoint `json:"destination,omitempty"`

	DepartureDate string `json:"departure_date,omitempty"`
	ArrivalDate   string `json:"arrival_date,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
	FlightNumber  string `json:"flight_number,omitempty"`
	TrainNumber   string `json:"train_number,omitempty"`
	Airline       string `json:"airline,omitempty"`
	Operator      string `json:"operator,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// OriginEndpoint folds the flat origin_location_id form into TripEndpoint.
func (r CreateTripRequest) OriginEndpoint() TripEndpoint {
	if r.Origin != nil {
		return *r.Origin
	}
	return TripEndpoint{ID: r.OriginLocationID}
}

func (r CreateTripRequest) DestinationEndpoint() TripEndpoint {
	if r.Destination != nil {
		return *r.Destination
	}
	return TripEndpoint{ID: r.DestinationLocationID}
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type UpdateCountryRequest struct {
	CountryCode string `json:"country_code"`
}

type StatsFilter struct {
	Year     string             `json:"year"`
	TripType constants.TripType `json:"trip_type"`
	Units    string             `json:"units"`
}
