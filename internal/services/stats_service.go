package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ComputeStats aggregates trips after applying the year and trip type
// filters. Distances are reported in the requested units; carbon is always
// kilograms computed from kilometres.
func ComputeStats(trips []entities.TripDetail, filter dtos.StatsFilter) (dtos.StatsResponse, error) {
	year := strings.TrimSpace(filter.Year)
	if year != "" && year != "all" && !yearPattern.MatchString(year) {
		return dtos.StatsResponse{}, invalidf("year must be 'all' or YYYY")
	}
	if !validTripTypeFilter(filter.TripType) {
		return dtos.StatsResponse{}, invalidf("unknown trip type %q", filter.TripType)
	}
	units := strings.ToLower(strings.TrimSpace(filter.Units))
	if units == "" {
		units = UnitsMetric
	}
	if units != UnitsMetric && units != UnitsImperial {
		return dtos.StatsResponse{}, invalidf("units must be metric or imperial")
	}
	factor := 1.0
	if units == UnitsImperial {
		factor = constants.KmToMiles
	}

	resp := dtos.StatsResponse{
		Units:           units,
		TripsByType:     map[string]int{},
		DistanceByMonth: []dtos.MonthlyDistance{},
		CarbonByType:    map[string]int64{},
		AvailableYears:  availableYears(trips),
	}

	var monthly [12]float64
	var hasMonth [12]bool
	filtered := make([]entities.TripDetail, 0, len(trips))
	for _, t := range trips {
		if year != "" && year != "all" && (t.DepartureDate == nil || !strings.HasPrefix(*t.DepartureDate, year+"-")) {
			continue
		}
		if filter.TripType != "" && filter.TripType != "all" && t.TripType != filter.TripType {
			continue
		}
		filtered = append(filtered, t)

		distance := t.DistanceKm * factor
		resp.TotalDistance += distance
		resp.TripsByType[string(t.TripType)]++
		if t.DurationMinutes != nil {
			resp.TotalDurationMinutes += *t.DurationMinutes
		}

		carbon := int64(math.Round(t.DistanceKm * t.TripType.CarbonFactor()))
		resp.CarbonFootprintKg += carbon
		resp.CarbonByType[string(t.TripType)] += carbon

		if t.DepartureDate != nil {
			if d, err := time.Parse(dateLayout, *t.DepartureDate); err == nil {
				m := int(d.Month()) - 1
				monthly[m] += distance
				hasMonth[m] = true
			}
		}
	}

	resp.TotalTrips = len(filtered)
	if resp.TotalTrips > 0 {
		resp.AverageDistance = round1(resp.TotalDistance / float64(resp.TotalTrips))
	}
	resp.TotalDistance = round1(resp.TotalDistance)
	resp.CountriesVisited = len(countriesOf(filtered))

	for m := 0; m < 12; m++ {
		if !hasMonth[m] {
			continue
		}
		resp.DistanceByMonth = append(resp.DistanceByMonth, dtos.MonthlyDistance{
			Month:    time.Month(m + 1).String()[:3],
			Distance: round1(monthly[m]),
		})
	}

	return resp, nil
}

// availableYears lists departure years, newest first.
func availableYears(trips []entities.TripDetail) []string {
	seen := map[string]struct{}{}
	for _, t := range trips {
		if t.DepartureDate != nil && len(*t.DepartureDate) >= 4 {
			seen[(*t.DepartureDate)[:4]] = struct{}{}
		}
	}
	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
