package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
	"travel-log/globetrotter/internal/providers"
)

type fakeStore struct {
	rows  []entities.Location
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeStore) SearchLocations(ctx context.Context, term string, category constants.LocationType, limit int) ([]entities.Location, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []entities.Location
	for _, r := range f.rows {
		if category == "" || r.LocationType == category {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeGeocoder struct {
	mu      sync.Mutex
	queries []string
	places  map[string][]dtos.NominatimPlace
	err     error
	block   bool
}

func (f *fakeGeocoder) Search(ctx context.Context, params providers.SearchParams) ([]dtos.NominatimPlace, error) {
	f.mu.Lock()
	f.queries = append(f.queries, params.Query)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.places[params.Query], nil
}

func (f *fakeGeocoder) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func testOptions() Options {
	return Options{
		SearchTTL:       time.Minute,
		GeocoderTTL:     time.Minute,
		SubQueryTimeout: 200 * time.Millisecond,
	}
}

func newTestResolver(store LocalStore, geo Geocoder) *Resolver {
	return New(store, geo, common.NewCacheService(time.Minute, time.Minute), nil, testOptions())
}

var jfkRow = entities.Location{
	ID: 1, Name: "John F. Kennedy International Airport", City: "New York", Country: "United States",
	LocationType: constants.LocationAirport, AirportCode: "JFK", Latitude: 40.6413, Longitude: -73.7781,
}

func london(lat string) dtos.NominatimPlace {
	return dtos.NominatimPlace{
		OsmID: 65606, Name: "London", Lat: lat, Lon: "-0.1276", Class: "place", Type: "city",
		Address: dtos.NominatimAddress{City: "London", Country: "United Kingdom", CountryCode: "gb"},
	}
}

func TestSearch_ShortQueryTouchesNothing(t *testing.T) {
	store := &fakeStore{rows: []entities.Location{jfkRow}}
	geo := &fakeGeocoder{}
	r := newTestResolver(store, geo)

	for _, q := range []string{"", " ", "j", "  J  "} {
		got, err := r.Search(context.Background(), Query{Text: q})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
	assert.Zero(t, store.calls.Load())
	assert.Empty(t, geo.seen())
}

func TestSearch_ExactCodeRanksFirst(t *testing.T) {
	store := &fakeStore{rows: []entities.Location{
		{ID: 2, Name: "Jfk Street Diner", City: "Boston", Country: "United States", LocationType: constants.LocationOther},
		jfkRow,
	}}
	r := newTestResolver(store, &fakeGeocoder{})

	got, err := r.Search(context.Background(), Query{Text: "JFK", Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, int64(1), *got[0].ID)
	assert.True(t, got[0].FromDB)
	assert.Equal(t, float64(scoreExactCode), got[0].Relevance)
	assert.Equal(t, "JFK", got[0].Code)
	assert.Equal(t, "John F. Kennedy International Airport (JFK) - New York, United States", got[0].Display)
}

func TestSearch_MisspelledQueryFallsBackToGeocoder(t *testing.T) {
	geo := &fakeGeocoder{places: map[string][]dtos.NominatimPlace{"Londn": {london("51.5073")}}}
	r := newTestResolver(&fakeStore{}, geo)

	got, err := r.Search(context.Background(), Query{Text: "Londn", Limit: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "London", got[0].Name)
	assert.False(t, got[0].FromDB)
	assert.Nil(t, got[0].ID)
	assert.Equal(t, "GB", got[0].CountryCode)
	assert.Equal(t, constants.LocationCity, got[0].LocationType)
	assert.InDelta(t, extScoreFuzzy+6.0, got[0].Relevance, 1e-9)
}

func TestSearch_EnoughLocalHitsSkipGeocoder(t *testing.T) {
	var rows []entities.Location
	for i := 0; i < 7; i++ {
		name := "Paris Place " + string(rune('A'+i))
		rows = append(rows, entities.Location{ID: int64(i + 1), Name: name, City: "Paris", LocationType: constants.LocationCity})
	}
	geo := &fakeGeocoder{}
	r := newTestResolver(&fakeStore{rows: rows}, geo)

	got, err := r.Search(context.Background(), Query{Text: "paris", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Empty(t, geo.seen())
}

func TestSearch_LocalStoreErrorFails(t *testing.T) {
	r := newTestResolver(&fakeStore{err: errors.New("connection refused")}, &fakeGeocoder{})

	_, err := r.Search(context.Background(), Query{Text: "paris"})
	assert.Error(t, err)
}

func TestSearch_GeocoderErrorIsSwallowed(t *testing.T) {
	geo := &fakeGeocoder{err: &providers.ProviderError{Code: constants.ErrCodeRateLimited, Message: "slow down"}}
	r := newTestResolver(&fakeStore{rows: []entities.Location{jfkRow}}, geo)

	got, err := r.Search(context.Background(), Query{Text: "new york"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].FromDB)
}

func TestSearch_GeocoderTimeoutDegrades(t *testing.T) {
	r := newTestResolver(&fakeStore{rows: []entities.Location{jfkRow}}, &fakeGeocoder{block: true})
	r.opts.SubQueryTimeout = 30 * time.Millisecond

	start := time.Now()
	got, err := r.Search(context.Background(), Query{Text: "kennedy"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSearch_CachesCombinedResults(t *testing.T) {
	store := &fakeStore{rows: []entities.Location{jfkRow}}
	r := newTestResolver(store, &fakeGeocoder{})

	first, err := r.Search(context.Background(), Query{Text: "kennedy"})
	require.NoError(t, err)
	second, err := r.Search(context.Background(), Query{Text: "  KENNEDY "})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSearch_CategoryIsPartOfCacheKey(t *testing.T) {
	store := &fakeStore{rows: []entities.Location{jfkRow}}
	r := newTestResolver(store, &fakeGeocoder{})

	_, err := r.Search(context.Background(), Query{Text: "kennedy"})
	require.NoError(t, err)
	got, err := r.Search(context.Background(), Query{Text: "kennedy", Category: constants.LocationTrainStation})
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, int32(2), store.calls.Load())
}

func TestSearch_InvalidCategory(t *testing.T) {
	r := newTestResolver(&fakeStore{}, &fakeGeocoder{})
	_, err := r.Search(context.Background(), Query{Text: "paris", Category: "spaceport"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestSearch_CategoryHintSubQuery(t *testing.T) {
	heathrow := dtos.NominatimPlace{
		Name: "Heathrow Airport", Lat: "51.47", Lon: "-0.4543", Class: "aeroway", Type: "aerodrome",
		Address: dtos.NominatimAddress{City: "London", Country: "United Kingdom", CountryCode: "gb"},
	}
	geo := &fakeGeocoder{places: map[string][]dtos.NominatimPlace{
		"london":         {london("51.5073")},
		"london airport": {heathrow},
	}}
	r := newTestResolver(&fakeStore{}, geo)

	got, err := r.Search(context.Background(), Query{Text: "london", Category: constants.LocationAirport})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"london", "london airport"}, geo.seen())
	require.Len(t, got, 1)
	assert.Equal(t, "Heathrow", got[0].Name)
	assert.Equal(t, constants.LocationAirport, got[0].LocationType)
}

func TestSearch_DedupAndMerge(t *testing.T) {
	local := entities.Location{ID: 9, Name: "London", City: "London", Country: "United Kingdom", LocationType: constants.LocationCity}
	dup := london("51.5")
	dup.Name = "london"
	paris := dtos.NominatimPlace{
		Name: "London Road", Lat: "48.85", Lon: "2.35", Class: "highway", Type: "residential",
		Address: dtos.NominatimAddress{City: "Paris", Country: "France", CountryCode: "fr"},
	}
	geo := &fakeGeocoder{places: map[string][]dtos.NominatimPlace{
		"london": {london("51.5073"), dup, paris},
	}}
	r := newTestResolver(&fakeStore{rows: []entities.Location{local}}, geo)

	got, err := r.Search(context.Background(), Query{Text: "london", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// local exact match wins the tie with the external copy and keeps its id
	assert.True(t, got[0].FromDB)
	assert.Equal(t, int64(9), *got[0].ID)
	assert.Equal(t, "London Road", got[1].Name)
	assert.False(t, got[1].FromDB)
}

func TestSearch_LocalRowsCollapseByNameCityCountry(t *testing.T) {
	rows := []entities.Location{
		{ID: 11, Name: "Springfield Airport", City: "Springfield", Country: "United States",
			LocationType: constants.LocationAirport, AirportCode: "SGF"},
		{ID: 12, Name: "Springfield Airport", City: "Springfield", Country: "United States",
			LocationType: constants.LocationAirport, AirportCode: "SPI"},
		{ID: 13, Name: "Springfield Airport", City: "Springfield", Country: "Australia",
			LocationType: constants.LocationAirport},
	}
	r := newTestResolver(&fakeStore{rows: rows}, &fakeGeocoder{})

	got, err := r.Search(context.Background(), Query{Text: "springfield", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "United States", got[0].Country)
	assert.Equal(t, int64(11), *got[0].ID)
	assert.Equal(t, "Australia", got[1].Country)
}

func TestSearch_LocalCollapseKeepsBestScore(t *testing.T) {
	rows := []entities.Location{
		{ID: 21, Name: "Union Station", City: "Denver", Country: "United States", LocationType: constants.LocationTrainStation},
		{ID: 22, Name: "Union Station", City: "Denver", Country: "United States", LocationType: constants.LocationTrainStation, StationCode: "DEN"},
	}
	r := newTestResolver(&fakeStore{rows: rows}, &fakeGeocoder{})

	got, err := r.Search(context.Background(), Query{Text: "den", Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(22), *got[0].ID)
	assert.Equal(t, float64(scoreExactCode), got[0].Relevance)
}

func TestSearch_MergeStopsAtLimit(t *testing.T) {
	var places []dtos.NominatimPlace
	for _, name := range []string{"Springfield A", "Springfield B", "Springfield C", "Springfield D"} {
		places = append(places, dtos.NominatimPlace{Name: name, Lat: "40", Lon: "-90", Class: "place", Type: "town"})
	}
	geo := &fakeGeocoder{places: map[string][]dtos.NominatimPlace{"springfield": places}}
	r := newTestResolver(&fakeStore{}, geo)

	got, err := r.Search(context.Background(), Query{Text: "springfield", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearch_ConcurrentMissesCollapse(t *testing.T) {
	store := &fakeStore{rows: []entities.Location{jfkRow}, delay: 100 * time.Millisecond}
	r := newTestResolver(store, &fakeGeocoder{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Search(context.Background(), Query{Text: "kennedy"})
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSearch_GeocoderResultsCachedPerSubQuery(t *testing.T) {
	geo := &fakeGeocoder{places: map[string][]dtos.NominatimPlace{"Londn": {london("51.5073")}}}
	r := newTestResolver(&fakeStore{}, geo)

	_, err := r.Search(context.Background(), Query{Text: "Londn", Limit: 5})
	require.NoError(t, err)

	// a category filter changes the combined key but not the raw sub-query
	got, err := r.Search(context.Background(), Query{Text: "Londn", Limit: 5, Language: "EN", Category: constants.LocationCity})
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, []string{"Londn"}, geo.seen())
}

func TestInvalidate(t *testing.T) {
	store := &fakeStore{}
	r := newTestResolver(store, &fakeGeocoder{})

	_, err := r.Search(context.Background(), Query{Text: "lond"})
	require.NoError(t, err)
	_, err = r.Search(context.Background(), Query{Text: "tokyo"})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Invalidate("London Heathrow", "", "United Kingdom"))

	_, err = r.Search(context.Background(), Query{Text: "lond"})
	require.NoError(t, err)
	_, err = r.Search(context.Background(), Query{Text: "tokyo"})
	require.NoError(t, err)

	assert.Equal(t, int32(3), store.calls.Load())
}

func TestScoreLocalLadder(t *testing.T) {
	loc := entities.Location{Name: "Berlin Hauptbahnhof", City: "Berlin", Country: "Germany", StationCode: "BHF"}
	cases := []struct {
		term string
		want float64
	}{
		{"berlin hauptbahnhof", scoreExactName},
		{"bhf", scoreExactCode},
		{"berlin h", scoreNamePrefix},
		{"hauptbahnhof", scoreNameSubstring},
		{"germ", scoreCountryContains},
		{"zzz", scoreDefault},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoreLocal(loc, tc.term), tc.term)
	}

	city := entities.Location{Name: "Tegel", City: "Berlin"}
	assert.Equal(t, float64(scoreExactCity), scoreLocal(city, "berlin"))
	assert.Equal(t, float64(scoreCityPrefix), scoreLocal(city, "berl"))
	assert.Equal(t, float64(scoreCitySubstring), scoreLocal(city, "erli"))
}

func TestLocalTieBreakByCategoryThenName(t *testing.T) {
	rows := []entities.Location{
		{ID: 1, Name: "Zurich Central", City: "Zurich", LocationType: constants.LocationCity},
		{ID: 2, Name: "Zurich Hbf", City: "Zurich", LocationType: constants.LocationTrainStation},
		{ID: 3, Name: "Zurich Airport", City: "Zurich", LocationType: constants.LocationAirport},
		{ID: 4, Name: "Zurich Altstadt", City: "Zurich", LocationType: constants.LocationCity},
	}
	r := newTestResolver(&fakeStore{rows: rows}, &fakeGeocoder{})

	got, err := r.Search(context.Background(), Query{Text: "zurich", Limit: 4})
	require.NoError(t, err)
	require.Len(t, got, 4)

	var ids []int64
	for _, c := range got {
		ids = append(ids, *c.ID)
	}
	assert.Equal(t, []int64{3, 2, 4, 1}, ids)
}

func TestQueryFromSearchKey(t *testing.T) {
	q, ok := queryFromSearchKey(searchKey("a|b", "en", 10, ""))
	require.True(t, ok)
	assert.Equal(t, "a|b", q)

	_, ok = queryFromSearchKey("geocoder:x|en|10")
	assert.False(t, ok)
}
