package resolver

import (
	"math"
	"strconv"
	"strings"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
	"travel-log/globetrotter/internal/providers"
)

// Candidate is one search result, either a saved location (FromDB) or a
// geocoder hit that has not been saved yet.
type Candidate struct {
	ID           *int64                 `json:"id,omitempty"`
	Name         string                 `json:"name"`
	City         string                 `json:"city"`
	Country      string                 `json:"country"`
	CountryCode  string                 `json:"country_code"`
	Code         string                 `json:"code,omitempty"`
	LocationType constants.LocationType `json:"location_type"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	FromDB       bool                   `json:"from_db"`
	OsmID        *int64                 `json:"osm_id,omitempty"`
	Relevance    float64                `json:"relevance"`
	Display      string                 `json:"display"`
}

// dedupKey identifies the same place across sources.
func (c Candidate) dedupKey() string {
	return strings.ToLower(c.Name) + "|" + strings.ToLower(c.City) + "|" + strings.ToLower(c.Country)
}

// Local relevance ladder, highest first.
const (
	scoreExactName       = 100
	scoreExactCode       = 95
	scoreNamePrefix      = 90
	scoreExactCity       = 85
	scoreCityPrefix      = 80
	scoreNameSubstring   = 70
	scoreCitySubstring   = 60
	scoreCountryContains = 50
	scoreDefault         = 10
)

// External relevance ladder, before the category bonus.
const (
	extScoreExact     = 100
	extScorePrefix    = 90
	extScoreSubstring = 70
	extScoreFuzzy     = 30
)

func scoreLocal(loc entities.Location, term string) float64 {
	name := strings.ToLower(loc.Name)
	city := strings.ToLower(loc.City)
	country := strings.ToLower(loc.Country)

	switch {
	case name == term:
		return scoreExactName
	case strings.EqualFold(loc.AirportCode, term) || strings.EqualFold(loc.StationCode, term):
		return scoreExactCode
	case strings.HasPrefix(name, term):
		return scoreNamePrefix
	case city != "" && city == term:
		return scoreExactCity
	case city != "" && strings.HasPrefix(city, term):
		return scoreCityPrefix
	case strings.Contains(name, term):
		return scoreNameSubstring
	case city != "" && strings.Contains(city, term):
		return scoreCitySubstring
	case country != "" && strings.Contains(country, term):
		return scoreCountryContains
	default:
		return scoreDefault
	}
}

func fromLocation(loc entities.Location, term string) Candidate {
	id := loc.ID
	code := loc.AirportCode
	if code == "" {
		code = loc.StationCode
	}
	return Candidate{
		ID:           &id,
		Name:         loc.Name,
		City:         loc.City,
		Country:      loc.Country,
		CountryCode:  loc.CountryCode,
		Code:         code,
		LocationType: loc.LocationType,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		FromDB:       true,
		Relevance:    scoreLocal(loc, term),
		Display:      entities.DisplayText(loc.Name, loc.City, loc.Country, code, loc.LocationType),
	}
}

func scoreExternal(name string, category constants.LocationType, term string) float64 {
	n := strings.ToLower(name)
	var base float64
	switch {
	case n == term:
		base = extScoreExact
	case strings.HasPrefix(n, term):
		base = extScorePrefix
	case strings.Contains(n, term):
		base = extScoreSubstring
	default:
		base = extScoreFuzzy
	}
	return base + float64(category.Priority())/10
}

// fromPlace maps a geocoder hit. ok is false when the place has no usable
// name or coordinates.
func fromPlace(p dtos.NominatimPlace, term string) (Candidate, bool) {
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lon, errLon := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLon != nil || !geo.ValidPoint(geo.Point{Lat: lat, Lon: lon}) {
		return Candidate{}, false
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.TrimSpace(strings.Split(p.DisplayName, ",")[0])
	}
	if name == "" {
		return Candidate{}, false
	}

	category := providers.Classify(p)
	name = providers.StripCategorySuffix(name, category)
	city := p.Address.Locality()
	country := p.Address.Country

	c := Candidate{
		Name:         name,
		City:         city,
		Country:      country,
		CountryCode:  strings.ToUpper(p.Address.CountryCode),
		LocationType: category,
		Latitude:     lat,
		Longitude:    lon,
		Relevance:    scoreExternal(name, category, term),
		Display:      entities.DisplayText(name, city, country, "", category),
	}
	if p.OsmID != 0 {
		osm := p.OsmID
		c.OsmID = &osm
	}
	return c, true
}

// minLocalCoverage is how many local hits make the geocoder unnecessary.
func minLocalCoverage(limit int) int {
	return int(math.Ceil(constants.LocalCoverageRatio * float64(limit)))
}
