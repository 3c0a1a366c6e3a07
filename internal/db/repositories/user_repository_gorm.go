package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "travel-log/globetrotter/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository.
// The gorm.DB must be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// Create inserts the user and fills in its id. A taken email yields ErrDuplicate.
func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail matches case-insensitively; emails are stored lowercased.
func (r *UserRepositoryGORM) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("email = LOWER(?)", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *UserRepositoryGORM) GetByID(ctx context.Context, id int64) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpdateCountry sets or clears (nil) the user's home country.
func (r *UserRepositoryGORM) UpdateCountry(ctx context.Context, id int64, countryCode *string) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", id).
		Update("country_code", countryCode)
	if res.Error != nil {
		return fmt.Errorf("failed to update country: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
