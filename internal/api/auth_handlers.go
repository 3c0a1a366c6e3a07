package api

import (
	"context"
	"net/http"
	"time"

	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
)

// AuthAPI is the account surface the handlers need.
type AuthAPI interface {
	Signup(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error)
	Signin(ctx context.Context, req dtos.CredentialsRequest) (dtos.AuthResponse, error)
	Me(ctx context.Context, userID int64) (dtos.UserResponse, error)
	UpdateCountry(ctx context.Context, userID int64, code string) (dtos.UserResponse, error)
	StartGuestSession(ctx context.Context) (dtos.GuestSessionResponse, error)
	PromoteGuest(ctx context.Context, guestID string, req dtos.CredentialsRequest) (dtos.PromoteGuestResponse, error)
}

// SignupHandler godoc
// @Summary      Create an account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.CredentialsRequest  true  "Credentials"
// @Success      201 {object} dtos.APIResponse
// @Failure      400 {object} dtos.APIResponse
// @Failure      409 {object} dtos.APIResponse
// @Router       /api/v1/auth/signup [post]
func SignupHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CredentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.Signup(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "Account created", resp, http.StatusCreated)
	}
}

func SigninHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CredentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.Signin(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", resp)
	}
}

func MeHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, ok := auth.UserIDFrom(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgUserOnly, http.StatusForbidden)
			return
		}

		resp, err := svc.Me(r.Context(), userID)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", resp)
	}
}

func UpdateCountryHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID, ok := auth.UserIDFrom(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgUserOnly, http.StatusForbidden)
			return
		}

		var req dtos.UpdateCountryRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.UpdateCountry(r.Context(), userID, req.CountryCode)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", resp)
	}
}

// GuestSessionHandler issues a token for an anonymous session backed by the
// in-memory guest store.
func GuestSessionHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		resp, err := svc.StartGuestSession(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "Guest session started", resp, http.StatusCreated)
	}
}

// PromoteGuestHandler godoc
// @Summary      Turn a guest session into an account
// @Description  Creates the account and copies the guest's trips into it. Trips that cannot be copied are listed in failed_trips.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.CredentialsRequest  true  "Credentials"
// @Success      201 {object} dtos.APIResponse
// @Failure      409 {object} dtos.APIResponse
// @Router       /api/v1/auth/promote [post]
func PromoteGuestHandler(svc AuthAPI) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		guestID, ok := auth.GuestIDFrom(r.Context())
		if !ok {
			common.RespondError(w, initTime, nil, constants.MsgGuestOnly, http.StatusForbidden)
			return
		}

		var req dtos.CredentialsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := svc.PromoteGuest(r.Context(), guestID, req)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "Account created", resp, http.StatusCreated)
	}
}
