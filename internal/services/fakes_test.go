package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

var (
	jfk = entities.Location{
		Name: "John F Kennedy International", City: "New York", Country: "United States", CountryCode: "US",
		LocationType: constants.LocationAirport, AirportCode: "JFK", Latitude: 40.6413, Longitude: -73.7781,
	}
	lhr = entities.Location{
		Name: "Heathrow", City: "London", Country: "United Kingdom", CountryCode: "GB",
		LocationType: constants.LocationAirport, AirportCode: "LHR", Latitude: 51.47, Longitude: -0.4543,
	}
	paris = entities.Location{
		Name: "Gare du Nord", City: "Paris", Country: "France", CountryCode: "FR",
		LocationType: constants.LocationTrainStation, Latitude: 48.8809, Longitude: 2.3553,
	}
)

func int64Ptr(v int64) *int64 { return &v }

func inline(loc entities.Location) *dtos.TripEndpoint {
	return &dtos.TripEndpoint{Location: &dtos.SaveLocationRequest{
		Name:         loc.Name,
		City:         loc.City,
		Country:      loc.Country,
		CountryCode:  loc.CountryCode,
		LocationType: loc.LocationType,
		AirportCode:  loc.AirportCode,
		StationCode:  loc.StationCode,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
	}}
}

type fakeInvalidator struct {
	mu     sync.Mutex
	values []string
}

func (f *fakeInvalidator) Invalidate(values ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, values...)
	return len(values)
}

func (f *fakeInvalidator) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.values...)
}

// fakeDB is an in-memory stand-in for the locations and trips tables. WithTx
// works on a copy and only commits when fn succeeds.
type fakeDB struct {
	mu        sync.Mutex
	locations map[int64]entities.Location
	trips     []entities.Trip
	routes    map[int64]string
	nextLoc   int64
	nextTrip  int64
	failRoute bool
	failFind  error
}

func newFakeDB(seed ...entities.Location) *fakeDB {
	db := &fakeDB{locations: map[int64]entities.Location{}, routes: map[int64]string{}}
	for _, loc := range seed {
		db.nextLoc++
		loc.ID = db.nextLoc
		db.locations[loc.ID] = loc
	}
	return db
}

func (db *fakeDB) WithTx(ctx context.Context, fn func(repositories.TripWriter) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := &fakeTx{
		db:        db,
		locations: map[int64]entities.Location{},
		trips:     append([]entities.Trip(nil), db.trips...),
		routes:    map[int64]string{},
		nextLoc:   db.nextLoc,
		nextTrip:  db.nextTrip,
	}
	for k, v := range db.locations {
		tx.locations[k] = v
	}
	for k, v := range db.routes {
		tx.routes[k] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	db.locations, db.trips, db.routes = tx.locations, tx.trips, tx.routes
	db.nextLoc, db.nextTrip = tx.nextLoc, tx.nextTrip
	return nil
}

func (db *fakeDB) ListByUser(_ context.Context, userID int64) ([]entities.TripDetail, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	details := []entities.TripDetail{}
	for _, t := range db.trips {
		if t.UserID == userID {
			details = append(details, entities.NewTripDetail(t, db.locations[t.OriginLocationID], db.locations[t.DestinationLocationID]))
		}
	}
	sortTripDetails(details)
	return details, nil
}

func (db *fakeDB) Delete(_ context.Context, userID, tripID int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, t := range db.trips {
		if t.ID == tripID && t.UserID == userID {
			db.trips = append(db.trips[:i], db.trips[i+1:]...)
			delete(db.routes, tripID)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (db *fakeDB) VisitedCountries(ctx context.Context, userID int64) ([]string, error) {
	trips, _ := db.ListByUser(ctx, userID)
	return countriesOf(trips), nil
}

// LocationStore and LocationReader.

func (db *fakeDB) FindDuplicate(_ context.Context, loc entities.Location) (*entities.Location, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return findDup(db.locations, loc, db.failFind)
}

func (db *fakeDB) Insert(_ context.Context, loc entities.Location) (int64, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if loc.AirportCode != "" {
		for _, existing := range db.locations {
			if strings.EqualFold(existing.AirportCode, loc.AirportCode) {
				return existing.ID, false, nil
			}
		}
	}
	db.nextLoc++
	loc.ID = db.nextLoc
	db.locations[loc.ID] = loc
	return loc.ID, true, nil
}

func (db *fakeDB) ListAll(_ context.Context) ([]entities.Location, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entities.Location, 0, len(db.locations))
	for id := int64(1); id <= db.nextLoc; id++ {
		if loc, ok := db.locations[id]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (db *fakeDB) GetByID(_ context.Context, id int64) (*entities.Location, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	loc, ok := db.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &loc, nil
}

func (db *fakeDB) locationCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.locations)
}

func (db *fakeDB) route(tripID int64) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.routes[tripID]
}

func findDup(locations map[int64]entities.Location, loc entities.Location, failWith error) (*entities.Location, error) {
	if failWith != nil {
		return nil, failWith
	}
	ids := make([]int64, 0, len(locations))
	for id := range locations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if existing := locations[id]; IsDuplicateLocation(loc, existing) {
			return &existing, nil
		}
	}
	return nil, nil
}

type fakeTx struct {
	db        *fakeDB
	locations map[int64]entities.Location
	trips     []entities.Trip
	routes    map[int64]string
	nextLoc   int64
	nextTrip  int64
}

func (tx *fakeTx) LocationByID(_ context.Context, id int64) (*entities.Location, error) {
	loc, ok := tx.locations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &loc, nil
}

func (tx *fakeTx) FindDuplicateLocation(_ context.Context, loc entities.Location) (*entities.Location, error) {
	return findDup(tx.locations, loc, tx.db.failFind)
}

func (tx *fakeTx) InsertLocation(_ context.Context, loc entities.Location) (int64, bool, error) {
	tx.nextLoc++
	loc.ID = tx.nextLoc
	tx.locations[loc.ID] = loc
	return loc.ID, true, nil
}

func (tx *fakeTx) InsertTrip(_ context.Context, trip *entities.Trip) error {
	tx.nextTrip++
	trip.ID = tx.nextTrip
	trip.CreatedAt = time.Now().Add(time.Duration(trip.ID) * time.Millisecond)
	trip.UpdatedAt = trip.CreatedAt
	tx.trips = append(tx.trips, *trip)
	return nil
}

func (tx *fakeTx) InsertRoute(_ context.Context, tripID int64, wkt, routeType string) error {
	if tx.db.failRoute {
		return errors.New("route insert failed")
	}
	tx.routes[tripID] = wkt
	return nil
}
