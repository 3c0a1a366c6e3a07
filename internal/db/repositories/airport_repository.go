package repositories

import (
	"context"
	"fmt"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const airportBatchSize = 500

// AirportRepository handles the airport rows of the locations table
type AirportRepository struct {
	db *gormlib.DB
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db *gormlib.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// BatchInsert inserts airports in batches, skipping IATA codes that already
// exist. It returns how many rows were actually written.
func (r *AirportRepository) BatchInsert(ctx context.Context, airports []gorm.Airport) (int64, error) {
	if len(airports) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(airports, airportBatchSize)
	if res.Error != nil {
		return res.RowsAffected, fmt.Errorf("insert airports: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns total number of airports
func (r *AirportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.Airport{}).
		Where("location_type = ?", string(constants.LocationAirport)).
		Count(&count).Error
	return count, err
}
