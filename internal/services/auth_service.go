package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/db/repositories"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/dtos"
	gormModels "travel-log/globetrotter/internal/models/gorm"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

type UserStore interface {
	Create(ctx context.Context, user *gormModels.User) error
	GetByEmail(ctx context.Context, email string) (*gormModels.User, error)
	GetByID(ctx context.Context, id int64) (*gormModels.User, error)
	UpdateCountry(ctx context.Context, id int64, countryCode *string) error
}

// TripCreator is the registered-user trip path guest promotion replays into.
type TripCreator interface {
	CreateTrip(ctx context.Context, userID int64, req dtos.CreateTripRequest) (dtos.CreateTripResponse, error)
}

type AuthService struct {
	users  UserStore
	tokens *auth.TokenIssuer
	guests *GuestStore
	trips  TripCreator
}

func NewAuthService(users UserStore, tokens *auth.TokenIssuer, guests *GuestStore, trips TripCreator) *AuthService {
	return &AuthService{users: users, tokens: tokens, guests: guests, trips: trips}
}

func (s *AuthService) Signup(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	logging.Info("[AuthService] user signed up", "user_id", user.ID)
	return s.authResponse(user)
}

func (s *AuthService) Signin(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return dtos.AuthResponse{}, invalidf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return dtos.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dtos.AuthResponse{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.authResponse(user)
}

func (s *AuthService) Me(ctx context.Context, userID int64) (dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return dtos.UserResponse{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return dtos.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// UpdateCountry sets the home country. An empty code clears it.
func (s *AuthService) UpdateCountry(ctx context.Context, userID int64, code string) (dtos.UserResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var value *string
	if code != "" {
		if len(code) != 2 {
			return dtos.UserResponse{}, invalidf("country code must be two letters")
		}
		value = &code
	}

	err := s.users.UpdateCountry(ctx, userID, value)
	if errors.Is(err, repositories.ErrNotFound) {
		return dtos.UserResponse{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return dtos.UserResponse{}, err
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) StartGuestSession(_ context.Context) (dtos.GuestSessionResponse, error) {
	guestID := uuid.NewString()
	token, expires, err := s.tokens.IssueGuest(guestID)
	if err != nil {
		return dtos.GuestSessionResponse{}, err
	}
	return dtos.GuestSessionResponse{Token: token, GuestID: guestID, ExpiresAt: expires}, nil
}

// PromoteGuest creates an account and replays the guest's trips into it.
// Trips that fail are reported; the account is kept either way. The guest
// session is taken before replay, so concurrent promotions migrate it once.
func (s *AuthService) PromoteGuest(ctx context.Context, guestID string, req dtos.CredentialsRequest) (dtos.PromoteGuestResponse, error) {
	user, err := s.createUser(ctx, req)
	if err != nil {
		return dtos.PromoteGuestResponse{}, err
	}

	resp := dtos.PromoteGuestResponse{}
	trips, _ := s.guests.Take(guestID)
	for _, gt := range trips {
		if _, err := s.trips.CreateTrip(ctx, user.ID, gt.Request()); err != nil {
			logging.Warn("[AuthService] guest trip migration failed",
				"guest_id", guestID,
				"guest_trip_id", gt.Trip.ID,
				"error", err,
			)
			resp.FailedTrips = append(resp.FailedTrips, dtos.FailedTripMigration{
				GuestTripID: gt.Trip.ID,
				Name:        gt.Trip.Name,
				Error:       clientMessage(err),
			})
			continue
		}
		resp.MigratedTrips++
	}

	authResp, err := s.authResponse(user)
	if err != nil {
		return dtos.PromoteGuestResponse{}, err
	}
	resp.AuthResponse = authResp

	logging.Info("[AuthService] guest promoted",
		"guest_id", guestID,
		"user_id", user.ID,
		"migrated", resp.MigratedTrips,
		"failed", len(resp.FailedTrips),
	)
	return resp, nil
}

func (s *AuthService) createUser(ctx context.Context, req dtos.CredentialsRequest) (*gormModels.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalidf("email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, invalidf("invalid email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, invalidf("password is too long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &gormModels.User{Email: email, PasswordHash: string(hash)}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = &name
	}

	err = s.users.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) authResponse(user *gormModels.User) (dtos.AuthResponse, error) {
	token, expires, err := s.tokens.IssueUser(user.ID, user.Email)
	if err != nil {
		return dtos.AuthResponse{}, err
	}
	return dtos.AuthResponse{Token: token, ExpiresAt: expires, User: toUserResponse(user)}, nil
}

func toUserResponse(user *gormModels.User) dtos.UserResponse {
	return dtos.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        deref(user.Name),
		CountryCode: deref(user.CountryCode),
		CreatedAt:   user.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// clientMessage hides internal errors behind a generic message.
func clientMessage(err error) string {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return err.Error()
	}
	return "internal error"
}
