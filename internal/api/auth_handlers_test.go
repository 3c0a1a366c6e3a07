package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/services"
)

// mockAuth implements AuthAPI
type mockAuth struct {
	signupFunc        func(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error)
	signinFunc        func(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error)
	meFunc            func(ctx context.Context, userID int64) (dtos.UserResponse, error)
	updateCountryFunc func(ctx context.Context, userID int64, code string) (dtos.UserResponse, error)
	guestFunc         func(ctx context.Context) (dtos.GuestSessionResponse, error)
	promoteFunc       func(ctx context.Context, guestID string, req dtos.CredentialsRequest) (dtos.PromoteGuestResponse, error)
}

func (m *mockAuth) Signup(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
	return m.signupFunc(ctx, req)
}

func (m *mockAuth) Signin(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
	return m.signinFunc(ctx, req)
}

func (m *mockAuth) Me(ctx context.Context, userID int64) (dtos.UserResponse, error) {
	return m.meFunc(ctx, userID)
}

func (m *mockAuth) UpdateCountry(ctx context.Context, userID int64, code string) (dtos.UserResponse, error) {
	return m.updateCountryFunc(ctx, userID, code)
}

func (m *mockAuth) StartGuestSession(ctx context.Context) (dtos.GuestSessionResponse, error) {
	return m.guestFunc(ctx)
}

func (m *mockAuth) PromoteGuest(ctx context.Context, guestID string, req dtos.CredentialsRequest) (dtos.PromoteGuestResponse, error) {
	return m.promoteFunc(ctx, guestID, req)
}

func TestSignupHandler(t *testing.T) {
	svc := &mockAuth{signupFunc: func(_ context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
		switch req.Email {
		case "taken@example.com":
			return dtos.AuthResponse{}, fmt.Errorf("%w: email already registered", services.ErrConflict)
		case "bad":
			return dtos.AuthResponse{}, fmt.Errorf("%w: invalid email", services.ErrInvalidInput)
		}
		return dtos.AuthResponse{Token: "tok", User: dtos.UserResponse{ID: 1, Email: req.Email}}, nil
	}}
	handler := SignupHandler(svc)

	tests := []struct {
		name  string
		email string
		want  int
	}{
		{"created", "ada@example.com", http.StatusCreated},
		{"duplicate", "taken@example.com", http.StatusConflict},
		{"invalid", "bad", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := serve(handler, newRequest(t, http.MethodPost, "/api/v1/auth/signup",
				dtos.CredentialsRequest{Email: tt.email, Password: "pw"}, nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestSigninHandler(t *testing.T) {
	svc := &mockAuth{signinFunc: func(_ context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error) {
		if req.Password != "right" {
			return dtos.AuthResponse{}, fmt.Errorf("%w: invalid email or password", services.ErrUnauthorized)
		}
		return dtos.AuthResponse{Token: "tok"}, nil
	}}
	handler := SigninHandler(svc)

	rr, body := serve(handler, newRequest(t, http.MethodPost, "/api/v1/auth/signin", dtos.CredentialsRequest{Email: "a@b.io", Password: "right"}, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "tok", body.Data.(map[string]any)["token"])

	rr, body = serve(handler, newRequest(t, http.MethodPost, "/api/v1/auth/signin", dtos.CredentialsRequest{Email: "a@b.io", Password: "wrong"}, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, constants.MsgInvalidCredentials, body.Message)
}

func TestMeAndUpdateCountryHandlers(t *testing.T) {
	svc := &mockAuth{
		meFunc: func(_ context.Context, userID int64) (dtos.UserResponse, error) {
			return dtos.UserResponse{ID: userID, Email: "ada@example.com"}, nil
		},
		updateCountryFunc: func(_ context.Context, userID int64, code string) (dtos.UserResponse, error) {
			if len(code) != 2 {
				return dtos.UserResponse{}, fmt.Errorf("%w: country code must be two letters", services.ErrInvalidInput)
			}
			return dtos.UserResponse{ID: userID, CountryCode: code}, nil
		},
	}

	rr, body := serve(MeHandler(svc), newRequest(t, http.MethodGet, "/api/v1/auth/me", nil, userClaims(42)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 42, body.Data.(map[string]any)["id"])

	rr, _ = serve(MeHandler(svc), newRequest(t, http.MethodGet, "/api/v1/auth/me", nil, guestClaims("g")))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, body = serve(UpdateCountryHandler(svc), newRequest(t, http.MethodPost, "/api/v1/auth/update-country",
		dtos.UpdateCountryRequest{CountryCode: "FR"}, userClaims(42)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "FR", body.Data.(map[string]any)["country_code"])

	rr, _ = serve(UpdateCountryHandler(svc), newRequest(t, http.MethodPost, "/api/v1/auth/update-country",
		dtos.UpdateCountryRequest{CountryCode: "FRA"}, userClaims(42)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGuestSessionAndPromoteHandlers(t *testing.T) {
	var promoted string
	svc := &mockAuth{
		guestFunc: func(context.Context) (dtos.GuestSessionResponse, error) {
			return dtos.GuestSessionResponse{Token: "guest-token", GuestID: "g-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		promoteFunc: func(_ context.Context, guestID string, req dtos.CredentialsRequest) (dtos.PromoteGuestResponse, error) {
			promoted = guestID
			return dtos.PromoteGuestResponse{
				AuthResponse:  dtos.AuthResponse{Token: "user-token"},
				MigratedTrips: 2,
				FailedTrips:   []dtos.FailedTripMigration{{GuestTripID: 3, Name: "bad", Error: "internal error"}},
			}, nil
		},
	}

	rr, body := serve(GuestSessionHandler(svc), newRequest(t, http.MethodPost, "/api/v1/guest/session", nil, nil))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "g-1", body.Data.(map[string]any)["guest_id"])

	rr, body = serve(PromoteGuestHandler(svc), newRequest(t, http.MethodPost, "/api/v1/auth/promote",
		dtos.CredentialsRequest{Email: "ada@example.com", Password: "pw"}, guestClaims("g-1")))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "g-1", promoted)
	data := body.Data.(map[string]any)
	assert.Equal(t, "user-token", data["token"])
	assert.EqualValues(t, 2, data["migrated_trips"])
	assert.Len(t, data["failed_trips"], 1)

	rr, _ = serve(PromoteGuestHandler(svc), newRequest(t, http.MethodPost, "/api/v1/auth/promote",
		dtos.CredentialsRequest{Email: "ada@example.com", Password: "pw"}, userClaims(1)))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

type mockSyncer struct {
	err error
}

func (m *mockSyncer) LoadFromURL(_ context.Context, _ string) (dtos.AirportSyncResponse, error) {
	if m.err != nil {
		return dtos.AirportSyncResponse{}, m.err
	}
	return dtos.AirportSyncResponse{Parsed: 10, Inserted: 4}, nil
}

func TestSyncAirportsHandler(t *testing.T) {
	rr, body := serve(SyncAirportsHandler(&mockSyncer{}, "http://example.test/airports.dat"),
		newRequest(t, http.MethodPost, "/api/v1/admin/airports/sync", nil, userClaims(1)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 4, body.Data.(map[string]any)["inserted"])

	rr, body = serve(SyncAirportsHandler(&mockSyncer{err: errors.New("dial tcp: timeout")}, "http://example.test/airports.dat"),
		newRequest(t, http.MethodPost, "/api/v1/admin/airports/sync", nil, userClaims(1)))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotContains(t, body.Message, "dial tcp")
}
