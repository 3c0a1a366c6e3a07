package repositories

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travel-log/globetrotter/internal/constants"
	gormModels "travel-log/globetrotter/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// every pooled connection to :memory: would be a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&gormModels.User{}, &gormModels.Airport{}))
	return db
}

func strPtr(s string) *string { return &s }

func TestBuildSearchQuery(t *testing.T) {
	query, args, err := buildSearchQuery("jf_k", constants.LocationAirport, 40)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM locations")
	assert.Contains(t, query, "name ILIKE $1")
	assert.Contains(t, query, "location_type = $6")
	assert.Contains(t, query, "LIMIT 40")
	assert.NotContains(t, query, "?")

	require.Len(t, args, 11)
	assert.Equal(t, `%jf\_k%`, args[0])
	assert.Equal(t, "jf_k", args[3])
	assert.Equal(t, "airport", args[5])
	assert.Equal(t, `jf\_k%`, args[len(args)-1])
}

func TestBuildSearchQueryWithoutCategory(t *testing.T) {
	query, args, err := buildSearchQuery("paris", "", 10)
	require.NoError(t, err)

	assert.NotContains(t, query, "location_type =")
	assert.Len(t, args, 10)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestUserRepositoryGORM_CreateAndLookup(t *testing.T) {
	repo := NewUserRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	user := &gormModels.User{Email: "traveller@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "Traveller@Example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "traveller@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepositoryGORM_DuplicateEmail(t *testing.T) {
	repo := NewUserRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &gormModels.User{Email: "a@example.com", PasswordHash: "x"}))
	err := repo.Create(ctx, &gormModels.User{Email: "a@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepositoryGORM_UpdateCountry(t *testing.T) {
	repo := NewUserRepositoryGORM(setupTestDB(t))
	ctx := context.Background()

	user := &gormModels.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateCountry(ctx, user.ID, strPtr("NZ")))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CountryCode)
	assert.Equal(t, "NZ", *got.CountryCode)

	assert.ErrorIs(t, repo.UpdateCountry(ctx, 9999, nil), ErrNotFound)
}

func TestAirportRepository_BatchInsertSkipsExisting(t *testing.T) {
	repo := NewAirportRepository(setupTestDB(t))
	ctx := context.Background()

	batch := []gormModels.Airport{
		{Name: "Heathrow", City: strPtr("London"), LocationType: "airport", AirportCode: "LHR", Latitude: 51.47, Longitude: -0.4543},
		{Name: "Gatwick", City: strPtr("London"), LocationType: "airport", AirportCode: "LGW", Latitude: 51.148, Longitude: -0.190},
	}
	n, err := repo.BatchInsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	again := []gormModels.Airport{
		{Name: "Heathrow", LocationType: "airport", AirportCode: "LHR", Latitude: 51.47, Longitude: -0.4543},
		{Name: "Stansted", LocationType: "airport", AirportCode: "STN", Latitude: 51.885, Longitude: 0.235},
	}
	n, err = repo.BatchInsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestAirportRepository_BatchInsertEmpty(t *testing.T) {
	repo := NewAirportRepository(setupTestDB(t))
	n, err := repo.BatchInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLocationColumnsFlattenNulls(t *testing.T) {
	for _, col := range []string{"city", "country", "country_code", "airport_code", "station_code", "timezone"} {
		assert.True(t, strings.Contains(constants.LocationColumns, "COALESCE("+col+", '') AS "+col), col)
	}
}
