package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/entities"
)

// TripWriter is the set of statements trip creation runs inside one
// transaction.
type TripWriter interface {
	LocationByID(ctx context.Context, id int64) (*entities.Location, error)
	FindDuplicateLocation(ctx context.Context, loc entities.Location) (*entities.Location, error)
	InsertLocation(ctx context.Context, loc entities.Location) (int64, bool, error)
	InsertTrip(ctx context.Context, trip *entities.Trip) error
	InsertRoute(ctx context.Context, tripID int64, wkt, routeType string) error
}

type TripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// WithTx runs fn in a transaction, committing only when fn returns nil.
func (r *TripRepository) WithTx(ctx context.Context, fn func(TripWriter) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trip transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error("[TripRepository] rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(&txWriter{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit trip transaction: %w", err)
	}
	return nil
}

func (r *TripRepository) ListByUser(ctx context.Context, userID int64) ([]entities.TripDetail, error) {
	trips := []entities.TripDetail{}
	if err := r.db.SelectContext(ctx, &trips, constants.ListTripsByUser, userID); err != nil {
		return nil, fmt.Errorf("list trips for user %d: %w", userID, err)
	}
	return trips, nil
}

// Delete removes the trip only if userID owns it. Its route goes with it via
// ON DELETE CASCADE.
func (r *TripRepository) Delete(ctx context.Context, userID, tripID int64) error {
	res, err := r.db.ExecContext(ctx, constants.DeleteTripForUser, tripID, userID)
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", tripID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %d: %w", tripID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TripRepository) VisitedCountries(ctx context.Context, userID int64) ([]string, error) {
	countries := []string{}
	if err := r.db.SelectContext(ctx, &countries, constants.ListVisitedCountries, userID); err != nil {
		return nil, fmt.Errorf("visited countries for user %d: %w", userID, err)
	}
	return countries, nil
}

type txWriter struct {
	tx *sqlx.Tx
}

func (w *txWriter) LocationByID(ctx context.Context, id int64) (*entities.Location, error) {
	return getLocationByID(ctx, w.tx, id)
}

func (w *txWriter) FindDuplicateLocation(ctx context.Context, loc entities.Location) (*entities.Location, error) {
	return findDuplicateLocation(ctx, w.tx, loc)
}

func (w *txWriter) InsertLocation(ctx context.Context, loc entities.Location) (int64, bool, error) {
	return insertLocation(ctx, w.tx, loc)
}

func (w *txWriter) InsertTrip(ctx context.Context, trip *entities.Trip) error {
	err := w.tx.QueryRowxContext(ctx, constants.InsertTrip,
		trip.UserID, trip.Name, trip.TripType, trip.OriginLocationID, trip.DestinationLocationID,
		trip.DepartureDate, trip.ArrivalDate, trip.DepartureTime, trip.ArrivalTime,
		trip.FlightNumber, trip.TrainNumber, trip.Airline, trip.Operator,
		trip.DistanceKm, trip.DurationMinutes, trip.Notes,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

func (w *txWriter) InsertRoute(ctx context.Context, tripID int64, wkt, routeType string) error {
	if _, err := w.tx.ExecContext(ctx, constants.InsertTripRoute, tripID, wkt, routeType); err != nil {
		return fmt.Errorf("insert route for trip %d: %w", tripID, err)
	}
	return nil
}
