package services

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

const (
	dateLayout = "2006-01-02"

	maxAirportCode = 4
	maxStationCode = 16
	maxNameLength  = 255
)

var timeLayouts = []string{"15:04", "15:04:05"}

// ValidateLocation checks the fields a location needs before it is stored.
func ValidateLocation(loc entities.Location) error {
	if loc.Name == "" {
		return invalidf("location name is required")
	}
	if utf8.RuneCountInString(loc.Name) > maxNameLength {
		return invalidf("location name is too long")
	}
	if !loc.LocationType.Valid() {
		return invalidf("unknown location type %q", loc.LocationType)
	}
	if !geo.ValidPoint(loc.Point()) {
		return invalidf("coordinates out of range")
	}
	if len(loc.AirportCode) > maxAirportCode {
		return invalidf("airport code must be at most %d characters", maxAirportCode)
	}
	if len(loc.StationCode) > maxStationCode {
		return invalidf("station code must be at most %d characters", maxStationCode)
	}
	if loc.CountryCode != "" && len(loc.CountryCode) != 2 {
		return invalidf("country code must be two letters")
	}
	return nil
}

// IsDuplicateLocation applies the same two checks as the locations query:
// same name within 0.001 degrees, or same name, city and country.
func IsDuplicateLocation(a, b entities.Location) bool {
	if !strings.EqualFold(a.Name, b.Name) {
		return false
	}
	if math.Abs(a.Latitude-b.Latitude) < 0.001 && math.Abs(a.Longitude-b.Longitude) < 0.001 {
		return true
	}
	return a.City != "" && a.Country != "" &&
		strings.EqualFold(a.City, b.City) && strings.EqualFold(a.Country, b.Country)
}

func validateTripRequest(req dtos.CreateTripRequest) error {
	if !req.TripType.Valid() {
		return invalidf("unknown trip type %q", req.TripType)
	}
	for _, ep := range []dtos.TripEndpoint{req.OriginEndpoint(), req.DestinationEndpoint()} {
		if ep.ID == nil && ep.Location == nil {
			return invalidf("origin and destination are required")
		}
	}
	for _, d := range []string{req.DepartureDate, req.ArrivalDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return invalidf("dates must be YYYY-MM-DD")
		}
	}
	for _, t := range []string{req.DepartureTime, req.ArrivalTime} {
		if t == "" {
			continue
		}
		if _, ok := parseClock(t); !ok {
			return invalidf("times must be HH:MM")
		}
	}
	return nil
}

// buildTrip fills the derived columns of a trip from its resolved endpoints.
func buildTrip(req dtos.CreateTripRequest, origin, dest entities.Location) entities.Trip {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = string(req.TripType) + " trip"
	}

	return entities.Trip{
		Name:                  name,
		TripType:              req.TripType,
		OriginLocationID:      origin.ID,
		DestinationLocationID: dest.ID,
		DepartureDate:         optional(req.DepartureDate),
		ArrivalDate:           optional(req.ArrivalDate),
		DepartureTime:         optional(req.DepartureTime),
		ArrivalTime:           optional(req.ArrivalTime),
		FlightNumber:          strings.TrimSpace(req.FlightNumber),
		TrainNumber:           strings.TrimSpace(req.TrainNumber),
		Airline:               strings.TrimSpace(req.Airline),
		Operator:              strings.TrimSpace(req.Operator),
		DistanceKm:            geo.Distance(origin.Point(), dest.Point()),
		DurationMinutes:       tripDuration(req.DepartureDate, req.DepartureTime, req.ArrivalDate, req.ArrivalTime),
		Notes:                 strings.TrimSpace(req.Notes),
	}
}

// tripDuration returns whole minutes between departure and arrival, or nil
// unless all four parts are present.
func tripDuration(depDate, depTime, arrDate, arrTime string) *int64 {
	if depDate == "" || depTime == "" || arrDate == "" || arrTime == "" {
		return nil
	}
	dep, ok := parseMoment(depDate, depTime)
	if !ok {
		return nil
	}
	arr, ok := parseMoment(arrDate, arrTime)
	if !ok {
		return nil
	}
	minutes := int64(math.Round(arr.Sub(dep).Minutes()))
	return &minutes
}

func parseMoment(date, clock string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	c, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return d.Add(time.Duration(c.Hour())*time.Hour +
		time.Duration(c.Minute())*time.Minute +
		time.Duration(c.Second())*time.Second), true
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// sortTripDetails orders newest departures first, undated trips last, then
// by creation time.
func sortTripDetails(trips []entities.TripDetail) {
	sort.SliceStable(trips, func(i, j int) bool {
		di, dj := trips[i].DepartureDate, trips[j].DepartureDate
		switch {
		case di == nil && dj != nil:
			return false
		case di != nil && dj == nil:
			return true
		case di != nil && dj != nil && *di != *dj:
			return *di > *dj
		}
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})
}

// countriesOf collects the distinct, sorted country codes of trip endpoints.
func countriesOf(trips []entities.TripDetail) []string {
	seen := map[string]struct{}{}
	for _, t := range trips {
		for _, code := range []string{t.OriginCountryCode, t.DestinationCountryCode} {
			if code != "" {
				seen[strings.ToUpper(code)] = struct{}{}
			}
		}
	}
	countries := make([]string, 0, len(seen))
	for code := range seen {
		countries = append(countries, code)
	}
	sort.Strings(countries)
	return countries
}

func validTripTypeFilter(t constants.TripType) bool {
	return t == "" || t == "all" || t.Valid()
}
