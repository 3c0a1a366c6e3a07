package common

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// OpenFlights airports.dat column positions.
const (
	colName      = 1
	colCity      = 2
	colCountry   = 3
	colIATA      = 4
	colLatitude  = 6
	colLongitude = 7
	colTZ        = 11
	minColumns   = 12

	nullField = `\N`
)

// AirportLoaderService seeds the locations table from OpenFlights data
type AirportLoaderService struct {
	repo    *repositories.AirportRepository
	client  *http.Client
	metrics *metrics.MetricsRegistry
}

// NewAirportLoaderService creates a new airport loader service
func NewAirportLoaderService(db *gormlib.DB, client *http.Client, metricsReg *metrics.MetricsRegistry) *AirportLoaderService {
	if client == nil {
		client = http.DefaultClient
	}
	return &AirportLoaderService{
		repo:    repositories.NewAirportRepository(db),
		client:  client,
		metrics: metricsReg,
	}
}

// ParseOpenFlights keeps rows that have an IATA code and valid coordinates.
// Repeated IATA codes keep the first row.
func ParseOpenFlights(reader io.Reader) ([]gorm.Airport, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	seen := map[string]struct{}{}
	var airports []gorm.Airport
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logging.Warn("[AirportLoader] skipping malformed line", "line", line, "error", err)
			continue
		}
		if len(record) < minColumns {
			continue
		}

		iata := strings.ToUpper(field(record, colIATA))
		name := field(record, colName)
		if iata == "" || len(iata) > 4 || name == "" {
			continue
		}
		if _, dup := seen[iata]; dup {
			continue
		}

		lat, errLat := strconv.ParseFloat(field(record, colLatitude), 64)
		lon, errLon := strconv.ParseFloat(field(record, colLongitude), 64)
		if errLat != nil || errLon != nil || !geo.ValidPoint(geo.Point{Lat: lat, Lon: lon}) {
			continue
		}

		seen[iata] = struct{}{}
		airports = append(airports, gorm.Airport{
			Name:         name,
			City:         optionalField(record, colCity),
			Country:      optionalField(record, colCountry),
			LocationType: string(constants.LocationAirport),
			AirportCode:  iata,
			Latitude:     lat,
			Longitude:    lon,
			Timezone:     optionalField(record, colTZ),
		})
	}
	return airports, nil
}

// LoadFromReader parses and inserts airports, skipping codes already stored.
func (s *AirportLoaderService) LoadFromReader(ctx context.Context, reader io.Reader) (dtos.AirportSyncResponse, error) {
	airports, err := ParseOpenFlights(reader)
	if err != nil {
		return dtos.AirportSyncResponse{}, err
	}
	if len(airports) == 0 {
		return dtos.AirportSyncResponse{}, fmt.Errorf("no valid airports found after parsing")
	}

	logging.Info("[AirportLoader] parsed airports", "count", len(airports))

	inserted, err := s.repo.BatchInsert(ctx, airports)
	if err != nil {
		return dtos.AirportSyncResponse{}, fmt.Errorf("failed to insert airports: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AirportsImported.Add(float64(inserted))
	}

	logging.Info("[AirportLoader] imported airports", "parsed", len(airports), "inserted", inserted)
	return dtos.AirportSyncResponse{Parsed: len(airports), Inserted: inserted}, nil
}

func (s *AirportLoaderService) LoadFromFile(ctx context.Context, path string) (dtos.AirportSyncResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return dtos.AirportSyncResponse{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.LoadFromReader(ctx, f)
}

func (s *AirportLoaderService) LoadFromURL(ctx context.Context, url string) (dtos.AirportSyncResponse, error) {
	logging.Info("[AirportLoader] fetching airports", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dtos.AirportSyncResponse{}, fmt.Errorf("build airports request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return dtos.AirportSyncResponse{}, fmt.Errorf("failed to fetch airports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dtos.AirportSyncResponse{}, fmt.Errorf("failed to fetch airports: HTTP %d", resp.StatusCode)
	}
	return s.LoadFromReader(ctx, resp.Body)
}

func (s *AirportLoaderService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func field(record []string, i int) string {
	v := strings.TrimSpace(record[i])
	if v == nullField {
		return ""
	}
	return v
}

func optionalField(record []string, i int) *string {
	v := field(record, i)
	if v == "" {
		return nil
	}
	return &v
}
