package services

import (
	"context"
	"fmt"

	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

type LocationStore interface {
	FindDuplicate(ctx context.Context, loc entities.Location) (*entities.Location, error)
	Insert(ctx context.Context, loc entities.Location) (int64, bool, error)
	ListAll(ctx context.Context) ([]entities.Location, error)
}

// SearchInvalidator drops cached search results that a new location could
// change. *resolver.Resolver satisfies it.
type SearchInvalidator interface {
	Invalidate(values ...string) int
}

type LocationService struct {
	store       LocationStore
	invalidator SearchInvalidator
}

func NewLocationService(store LocationStore, invalidator SearchInvalidator) *LocationService {
	return &LocationService{store: store, invalidator: invalidator}
}

// Save returns the id of an existing duplicate or inserts the location.
func (s *LocationService) Save(ctx context.Context, loc entities.Location) (dtos.SaveLocationResponse, error) {
	if err := ValidateLocation(loc); err != nil {
		return dtos.SaveLocationResponse{}, err
	}

	existing, err := s.store.FindDuplicate(ctx, loc)
	if err != nil {
		return dtos.SaveLocationResponse{}, fmt.Errorf("find duplicate location: %w", err)
	}
	if existing != nil {
		return dtos.SaveLocationResponse{ID: existing.ID, Existed: true}, nil
	}

	id, inserted, err := s.store.Insert(ctx, loc)
	if err != nil {
		return dtos.SaveLocationResponse{}, fmt.Errorf("insert location: %w", err)
	}
	if inserted {
		invalidateFor(s.invalidator, loc)
		logging.Info("[LocationService] location saved", "id", id, "name", loc.Name, "type", loc.LocationType)
	}
	return dtos.SaveLocationResponse{ID: id, Existed: !inserted}, nil
}

// GeoJSON returns every known location as a Point feature.
func (s *LocationService) GeoJSON(ctx context.Context) (dtos.FeatureCollection, error) {
	locations, err := s.store.ListAll(ctx)
	if err != nil {
		return dtos.FeatureCollection{}, fmt.Errorf("list locations: %w", err)
	}

	features := make([]dtos.Feature, 0, len(locations))
	for _, loc := range locations {
		features = append(features, dtos.Feature{
			Type:     "Feature",
			Geometry: geo.PointGeoJSON(loc.Point()),
			Properties: map[string]any{
				"id":            loc.ID,
				"name":          loc.Name,
				"city":          loc.City,
				"country":       loc.Country,
				"country_code":  loc.CountryCode,
				"location_type": loc.LocationType,
				"code":          loc.Code(),
			},
		})
	}
	return dtos.NewFeatureCollection(features), nil
}

func invalidateFor(inv SearchInvalidator, locs ...entities.Location) {
	if inv == nil || len(locs) == 0 {
		return
	}
	values := make([]string, 0, len(locs)*3)
	for _, loc := range locs {
		values = append(values, loc.Name, loc.City, loc.Country)
	}
	if n := inv.Invalidate(values...); n > 0 {
		logging.Debug("[LocationService] search cache entries invalidated", "count", n)
	}
}
