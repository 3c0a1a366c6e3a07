package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

// LocationReader loads reference locations guests may point at by id.
type LocationReader interface {
	GetByID(ctx context.Context, id int64) (*entities.Location, error)
}

// GuestTrip is a guest trip with both endpoints resolved.
type GuestTrip struct {
	Trip        entities.Trip
	Origin      entities.Location
	Destination entities.Location
}

// Request rebuilds the create request that reproduces this trip. Locations
// that exist in Postgres are referenced by id, guest-only ones are inlined.
func (g GuestTrip) Request() dtos.CreateTripRequest {
	origin, dest := endpointFor(g.Origin), endpointFor(g.Destination)
	return dtos.CreateTripRequest{
		Name:          g.Trip.Name,
		TripType:      g.Trip.TripType,
		Origin:        &origin,
		Destination:   &dest,
		DepartureDate: deref(g.Trip.DepartureDate),
		ArrivalDate:   deref(g.Trip.ArrivalDate),
		DepartureTime: deref(g.Trip.DepartureTime),
		ArrivalTime:   deref(g.Trip.ArrivalTime),
		FlightNumber:  g.Trip.FlightNumber,
		TrainNumber:   g.Trip.TrainNumber,
		Airline:       g.Trip.Airline,
		Operator:      g.Trip.Operator,
		Notes:         g.Trip.Notes,
	}
}

type guestSession struct {
	mu         sync.Mutex
	locations  []entities.Location
	trips      []GuestTrip
	nextTripID int64
}

// GuestStore keeps guest data in memory. A session expires after ttl
// without access.
type GuestStore struct {
	mu        sync.Mutex
	sessions  *cache.Cache
	ttl       time.Duration
	locations LocationReader
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

func NewGuestStore(ttl time.Duration, locations LocationReader, metricsReg *metrics.MetricsRegistry) *GuestStore {
	return &GuestStore{
		sessions:  cache.New(ttl, 10*time.Minute),
		ttl:       ttl,
		locations: locations,
		metrics:   metricsReg,
		now:       time.Now,
	}
}

// ForGuest binds the store to one guest id, creating the session lazily.
func (g *GuestStore) ForGuest(guestID string) TripBackend {
	return &guestBackend{store: g, guestID: guestID}
}

// Take removes the guest session and returns its trips oldest first. The
// bool is false when the session does not exist, has expired or was already
// taken.
func (g *GuestStore) Take(guestID string) ([]GuestTrip, bool) {
	g.mu.Lock()
	v, ok := g.sessions.Get(guestID)
	if ok {
		g.sessions.Delete(guestID)
	}
	g.mu.Unlock()
	if !ok {
		return nil, false
	}
	s := v.(*guestSession)

	s.mu.Lock()
	defer s.mu.Unlock()
	trips := make([]GuestTrip, len(s.trips))
	copy(trips, s.trips)
	sort.Slice(trips, func(i, j int) bool { return trips[i].Trip.ID < trips[j].Trip.ID })
	return trips, true
}

// ActiveSessions counts unexpired sessions. Items skips entries the janitor
// has not removed yet.
func (g *GuestStore) ActiveSessions() int {
	return len(g.sessions.Items())
}

// session fetches or creates the guest session and slides its expiry.
func (g *GuestStore) session(guestID string) *guestSession {
	g.mu.Lock()
	defer g.mu.Unlock()

	if v, ok := g.sessions.Get(guestID); ok {
		s := v.(*guestSession)
		g.sessions.Set(guestID, s, g.ttl)
		return s
	}
	s := &guestSession{}
	g.sessions.Set(guestID, s, g.ttl)
	return s
}

// referenceLocation loads a shared location for a positive endpoint id.
func (g *GuestStore) referenceLocation(ctx context.Context, id int64, side string) (*entities.Location, error) {
	if g.locations == nil {
		return nil, invalidf("%s location %d not found", side, id)
	}
	loc, err := g.locations.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, invalidf("%s location %d not found", side, id)
	}
	return loc, err
}

type guestBackend struct {
	store   *GuestStore
	guestID string
}

func (b *guestBackend) SaveLocation(_ context.Context, loc entities.Location) (dtos.SaveLocationResponse, error) {
	if err := ValidateLocation(loc); err != nil {
		return dtos.SaveLocationResponse{}, err
	}

	s := b.store.session(b.guestID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findDuplicate(loc, nil); ok {
		return dtos.SaveLocationResponse{ID: existing.ID, Existed: true}, nil
	}
	loc = s.stamp(loc, nil, b.store.now())
	s.locations = append(s.locations, loc)
	return dtos.SaveLocationResponse{ID: loc.ID, Existed: false}, nil
}

func (b *guestBackend) CreateTrip(ctx context.Context, req dtos.CreateTripRequest) (dtos.CreateTripResponse, error) {
	if err := validateTripRequest(req); err != nil {
		return dtos.CreateTripResponse{}, err
	}

	endpoints := []dtos.TripEndpoint{req.OriginEndpoint(), req.DestinationEndpoint()}
	sides := []string{"origin", "destination"}

	// Shared locations are loaded before taking the session lock.
	shared := make([]*entities.Location, 2)
	for i, ep := range endpoints {
		if ep.ID != nil && *ep.ID > 0 {
			loc, err := b.store.referenceLocation(ctx, *ep.ID, sides[i])
			if err != nil {
				return dtos.CreateTripResponse{}, err
			}
			shared[i] = loc
		}
	}

	s := b.store.session(b.guestID)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := b.store.now()
	var staged []entities.Location
	resolved := make([]entities.Location, 2)
	for i, ep := range endpoints {
		switch {
		case shared[i] != nil:
			resolved[i] = *shared[i]
		case ep.ID != nil:
			loc, ok := s.locationByID(*ep.ID)
			if !ok {
				return dtos.CreateTripResponse{}, invalidf("%s location %d not found", sides[i], *ep.ID)
			}
			resolved[i] = loc
		default:
			loc := ep.Location.ToLocation()
			if err := ValidateLocation(loc); err != nil {
				return dtos.CreateTripResponse{}, err
			}
			if existing, ok := s.findDuplicate(loc, staged); ok {
				resolved[i] = existing
				continue
			}
			loc = s.stamp(loc, staged, now)
			staged = append(staged, loc)
			resolved[i] = loc
		}
	}

	origin, dest := resolved[0], resolved[1]
	if origin.ID == dest.ID {
		return dtos.CreateTripResponse{}, invalidf("origin and destination must differ")
	}

	trip := buildTrip(req, origin, dest)
	s.nextTripID++
	trip.ID = s.nextTripID
	trip.CreatedAt = now
	trip.UpdatedAt = now

	s.locations = append(s.locations, staged...)
	s.trips = append(s.trips, GuestTrip{Trip: trip, Origin: origin, Destination: dest})

	if b.store.metrics != nil {
		b.store.metrics.TripsCreatedTotal.WithLabelValues(string(trip.TripType), "guest").Inc()
	}

	return dtos.CreateTripResponse{
		ID:              trip.ID,
		DistanceKm:      trip.DistanceKm,
		DurationMinutes: trip.DurationMinutes,
	}, nil
}

func (b *guestBackend) ListTrips(_ context.Context) ([]entities.TripDetail, error) {
	s := b.store.session(b.guestID)
	s.mu.Lock()
	details := make([]entities.TripDetail, 0, len(s.trips))
	for _, t := range s.trips {
		details = append(details, entities.NewTripDetail(t.Trip, t.Origin, t.Destination))
	}
	s.mu.Unlock()

	sortTripDetails(details)
	return details, nil
}

func (b *guestBackend) DeleteTrip(_ context.Context, tripID int64) error {
	s := b.store.session(b.guestID)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.trips {
		if t.Trip.ID == tripID {
			s.trips = append(s.trips[:i], s.trips[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (b *guestBackend) VisitedCountries(ctx context.Context) ([]string, error) {
	trips, err := b.ListTrips(ctx)
	if err != nil {
		return nil, err
	}
	return countriesOf(trips), nil
}

func (s *guestSession) locationByID(id int64) (entities.Location, bool) {
	for _, loc := range s.locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return entities.Location{}, false
}

func (s *guestSession) findDuplicate(loc entities.Location, staged []entities.Location) (entities.Location, bool) {
	for _, candidates := range [][]entities.Location{s.locations, staged} {
		for _, existing := range candidates {
			if IsDuplicateLocation(loc, existing) {
				return existing, true
			}
		}
	}
	return entities.Location{}, false
}

// stamp assigns the next guest location id. Guest ids are negative so they
// never collide with Postgres ids.
func (s *guestSession) stamp(loc entities.Location, staged []entities.Location, now time.Time) entities.Location {
	loc.ID = -int64(len(s.locations) + len(staged) + 1)
	loc.CreatedAt = now
	loc.UpdatedAt = now
	return loc
}

func endpointFor(loc entities.Location) dtos.TripEndpoint {
	if loc.ID > 0 {
		id := loc.ID
		return dtos.TripEndpoint{ID: &id}
	}
	return dtos.TripEndpoint{Location: &dtos.SaveLocationRequest{
		Name:         loc.Name,
		City:         loc.City,
		Country:      loc.Country,
		CountryCode:  loc.CountryCode,
		LocationType: loc.LocationType,
		AirportCode:  loc.AirportCode,
		StationCode:  loc.StationCode,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		Timezone:     loc.Timezone,
	}}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
