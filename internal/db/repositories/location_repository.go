package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/entities"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type LocationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// SearchLocations returns up to limit rows matching term as a substring of
// name/city/country or exactly as a carrier code. Rows are pre-ordered so the
// strongest matches survive the limit; final ranking happens in the resolver.
func (r *LocationRepository) SearchLocations(ctx context.Context, term string, category constants.LocationType, limit int) ([]entities.Location, error) {
	query, args, err := buildSearchQuery(term, category, limit)
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	var rows []entities.Location
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search locations: %w", err)
	}
	return rows, nil
}

func buildSearchQuery(term string, category constants.LocationType, limit int) (string, []interface{}, error) {
	escaped := escapeLike(term)
	contains := "%" + escaped + "%"
	prefix := escaped + "%"

	b := psql.Select(constants.LocationColumns).
		From("locations").
		Where(sq.Or{
			sq.ILike{"name": contains},
			sq.ILike{"city": contains},
			sq.ILike{"country": contains},
			sq.Expr("UPPER(airport_code) = UPPER(?)", term),
			sq.Expr("UPPER(station_code) = UPPER(?)", term),
		}).
		OrderByClause(`CASE
			WHEN LOWER(name) = LOWER(?) THEN 0
			WHEN UPPER(airport_code) = UPPER(?) OR UPPER(station_code) = UPPER(?) THEN 1
			WHEN name ILIKE ? THEN 2
			WHEN city ILIKE ? THEN 3
			ELSE 4
		END`, term, term, term, prefix, prefix).
		OrderBy("name ASC").
		Limit(uint64(limit))

	if category != "" {
		b = b.Where(sq.Eq{"location_type": string(category)})
	}
	return b.ToSql()
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*entities.Location, error) {
	return getLocationByID(ctx, r.db, id)
}

// FindDuplicate returns the existing row a save should reuse, or nil.
func (r *LocationRepository) FindDuplicate(ctx context.Context, loc entities.Location) (*entities.Location, error) {
	return findDuplicateLocation(ctx, r.db, loc)
}

func (r *LocationRepository) Insert(ctx context.Context, loc entities.Location) (int64, bool, error) {
	return insertLocation(ctx, r.db, loc)
}

func (r *LocationRepository) ListAll(ctx context.Context) ([]entities.Location, error) {
	var rows []entities.Location
	if err := r.db.SelectContext(ctx, &rows, constants.ListLocations); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return rows, nil
}

// The helpers below run against either the pool or an open transaction.

func getLocationByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*entities.Location, error) {
	var loc entities.Location
	if err := q.QueryRowxContext(ctx, constants.GetLocationByID, id).StructScan(&loc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get location %d: %w", id, err)
	}
	return &loc, nil
}

func findDuplicateLocation(ctx context.Context, q sqlx.QueryerContext, loc entities.Location) (*entities.Location, error) {
	var existing entities.Location
	err := q.QueryRowxContext(ctx, constants.FindDuplicateLocation,
		loc.Name, loc.Latitude, loc.Longitude, loc.City, loc.Country,
	).StructScan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find duplicate location: %w", err)
	}
	return &existing, nil
}

// insertLocation returns inserted=false with the existing id when an airport
// with the same IATA code is already stored.
func insertLocation(ctx context.Context, q sqlx.QueryerContext, loc entities.Location) (int64, bool, error) {
	var id int64
	err := q.QueryRowxContext(ctx, constants.InsertLocation,
		loc.Name, loc.City, loc.Country, loc.CountryCode, loc.LocationType,
		loc.AirportCode, loc.StationCode, loc.Latitude, loc.Longitude, loc.Timezone,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("insert location: %w", err)
	}

	var existing entities.Location
	if err := q.QueryRowxContext(ctx, constants.GetLocationByAirportCode, loc.AirportCode).StructScan(&existing); err != nil {
		return 0, false, fmt.Errorf("load conflicting airport %s: %w", loc.AirportCode, err)
	}
	return existing.ID, false, nil
}
