package services

import (
	"context"
	"errors"
	"fmt"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

// TripBackend is the per-caller view of trips and locations. Registered users
// are served from Postgres and guests from the in-memory GuestStore.
type TripBackend interface {
	SaveLocation(ctx context.Context, loc entities.Location) (dtos.SaveLocationResponse, error)
	CreateTrip(ctx context.Context, req dtos.CreateTripRequest) (dtos.CreateTripResponse, error)
	ListTrips(ctx context.Context) ([]entities.TripDetail, error)
	DeleteTrip(ctx context.Context, tripID int64) error
	VisitedCountries(ctx context.Context) ([]string, error)
}

type TripStore interface {
	WithTx(ctx context.Context, fn func(repositories.TripWriter) error) error
	ListByUser(ctx context.Context, userID int64) ([]entities.TripDetail, error)
	Delete(ctx context.Context, userID, tripID int64) error
	VisitedCountries(ctx context.Context, userID int64) ([]string, error)
}

type TripService struct {
	store       TripStore
	locations   *LocationService
	invalidator SearchInvalidator
	metrics     *metrics.MetricsRegistry
}

func NewTripService(store TripStore, locations *LocationService, invalidator SearchInvalidator, metricsReg *metrics.MetricsRegistry) *TripService {
	return &TripService{
		store:       store,
		locations:   locations,
		invalidator: invalidator,
		metrics:     metricsReg,
	}
}

// ForUser binds the service to one registered user.
func (s *TripService) ForUser(userID int64) TripBackend {
	return &userBackend{svc: s, userID: userID}
}

// CreateTrip resolves both endpoints, inserts the trip and its great-circle
// route in one transaction. Locations created along the way are rolled back
// with the trip on failure.
func (s *TripService) CreateTrip(ctx context.Context, userID int64, req dtos.CreateTripRequest) (dtos.CreateTripResponse, error) {
	if err := validateTripRequest(req); err != nil {
		return dtos.CreateTripResponse{}, err
	}

	var (
		trip    entities.Trip
		created []entities.Location
	)
	err := s.store.WithTx(ctx, func(w repositories.TripWriter) error {
		created = created[:0]

		origin, isNew, err := resolveEndpoint(ctx, w, req.OriginEndpoint(), "origin")
		if err != nil {
			return err
		}
		if isNew {
			created = append(created, origin)
		}

		dest, isNew, err := resolveEndpoint(ctx, w, req.DestinationEndpoint(), "destination")
		if err != nil {
			return err
		}
		if isNew {
			created = append(created, dest)
		}

		if origin.ID == dest.ID {
			return invalidf("origin and destination must differ")
		}

		trip = buildTrip(req, origin, dest)
		trip.UserID = userID
		if err := w.InsertTrip(ctx, &trip); err != nil {
			return err
		}

		path := geo.Path(origin.Point(), dest.Point(), constants.RoutePathSteps)
		return w.InsertRoute(ctx, trip.ID, geo.WKTLineString(path), constants.RouteTypeGreatC)
	})
	if err != nil {
		return dtos.CreateTripResponse{}, err
	}

	invalidateFor(s.invalidator, created...)
	s.countTrip(trip.TripType, "postgres")
	logging.Info("[TripService] trip created",
		"trip_id", trip.ID,
		"user_id", userID,
		"type", trip.TripType,
		"distance_km", trip.DistanceKm,
	)

	return dtos.CreateTripResponse{
		ID:              trip.ID,
		DistanceKm:      trip.DistanceKm,
		DurationMinutes: trip.DurationMinutes,
	}, nil
}

func (s *TripService) ListTrips(ctx context.Context, userID int64) ([]entities.TripDetail, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID int64) error {
	err := s.store.Delete(ctx, userID, tripID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("trip %d: %w", tripID, ErrNotFound)
	}
	return err
}

func (s *TripService) VisitedCountries(ctx context.Context, userID int64) ([]string, error) {
	return s.store.VisitedCountries(ctx, userID)
}

func (s *TripService) countTrip(t constants.TripType, store string) {
	if s == nil || s.metrics == nil {
		return
	}
	s.metrics.TripsCreatedTotal.WithLabelValues(string(t), store).Inc()
}

// resolveEndpoint loads an endpoint by id or finds-or-creates it from inline
// details. The bool reports whether a new row was inserted.
func resolveEndpoint(ctx context.Context, w repositories.TripWriter, ep dtos.TripEndpoint, side string) (entities.Location, bool, error) {
	if ep.ID != nil {
		loc, err := w.LocationByID(ctx, *ep.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			return entities.Location{}, false, invalidf("%s location %d not found", side, *ep.ID)
		}
		if err != nil {
			return entities.Location{}, false, err
		}
		return *loc, false, nil
	}

	loc := ep.Location.ToLocation()
	if err := ValidateLocation(loc); err != nil {
		return entities.Location{}, false, fmt.Errorf("%s: %w", side, err)
	}

	existing, err := w.FindDuplicateLocation(ctx, loc)
	if err != nil {
		return entities.Location{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	id, inserted, err := w.InsertLocation(ctx, loc)
	if err != nil {
		return entities.Location{}, false, err
	}
	loc.ID = id
	return loc, inserted, nil
}

type userBackend struct {
	svc    *TripService
	userID int64
}

func (b *userBackend) SaveLocation(ctx context.Context, loc entities.Location) (dtos.SaveLocationResponse, error) {
	return b.svc.locations.Save(ctx, loc)
}

func (b *userBackend) CreateTrip(ctx context.Context, req dtos.CreateTripRequest) (dtos.CreateTripResponse, error) {
	return b.svc.CreateTrip(ctx, b.userID, req)
}

func (b *userBackend) ListTrips(ctx context.Context) ([]entities.TripDetail, error) {
	return b.svc.ListTrips(ctx, b.userID)
}

func (b *userBackend) DeleteTrip(ctx context.Context, tripID int64) error {
	return b.svc.DeleteTrip(ctx, b.userID, tripID)
}

func (b *userBackend) VisitedCountries(ctx context.Context) ([]string, error) {
	return b.svc.VisitedCountries(ctx, b.userID)
}
