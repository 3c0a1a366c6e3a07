package api

import (
	"net/http"

	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/services"
)

// BackendFunc picks the trip store for the caller: Postgres for users, the
// guest store for guests. It returns nil when claims are missing.
type BackendFunc func(claims auth.UserClaims) services.TripBackend

func NewBackendFunc(trips *services.TripService, guests *services.GuestStore) BackendFunc {
	return func(claims auth.UserClaims) services.TripBackend {
		switch {
		case claims == nil:
			return nil
		case claims.IsGuest():
			return guests.ForGuest(claims.GuestID())
		default:
			return trips.ForUser(claims.UserID())
		}
	}
}

func (f BackendFunc) from(r *http.Request) services.TripBackend {
	return f(auth.GetUserClaims(r.Context()))
}
