package entities

import (
	"fmt"
	"time"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/geo"
)

// Location is a row of the locations table. Nullable text columns are
// COALESCEd to "" on read and NULLIFed on write.
type Location struct {
	ID           int64                  `db:"id" json:"id"`
	Name         string                 `db:"name" json:"name"`
	City         string                 `db:"city" json:"city"`
	Country      string                 `db:"country" json:"country"`
	CountryCode  string                 `db:"country_code" json:"country_code"`
	LocationType constants.LocationType `db:"location_type" json:"location_type"`
	AirportCode  string                 `db:"airport_code" json:"airport_code,omitempty"`
	StationCode  string                 `db:"station_code" json:"station_code,omitempty"`
	Latitude     float64                `db:"latitude" json:"latitude"`
	Longitude    float64                `db:"longitude" json:"longitude"`
	Timezone     string                 `db:"timezone" json:"timezone,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time              `db:"updated_at" json:"updated_at"`
}

func (l Location) Point() geo.Point {
	return geo.Point{Lat: l.Latitude, Lon: l.Longitude}
}

// Code is the carrier code: IATA for airports, the station code otherwise.
func (l Location) Code() string {
	if l.LocationType == constants.LocationAirport {
		return l.AirportCode
	}
	return l.StationCode
}

// DisplayText renders "Name (CODE) - City, Country" style labels for pickers.
func DisplayText(name, city, country, code string, t constants.LocationType) string {
	switch {
	case code != "" && (t == constants.LocationAirport || t == constants.LocationTrainStation):
		if city != "" && country != "" {
			return fmt.Sprintf("%s (%s) - %s, %s", name, code, city, country)
		}
		return fmt.Sprintf("%s (%s)", name, code)
	case city != "" && country != "":
		return fmt.Sprintf("%s - %s, %s", name, city, country)
	case country != "":
		return fmt.Sprintf("%s - %s", name, country)
	default:
		return name
	}
}
