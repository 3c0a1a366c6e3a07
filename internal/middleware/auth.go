package middleware

import (
	"net/http"
	"strings"
	"time"

	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
)

// AuthMiddleware requires a valid bearer token and stores its claims in the
// request context.
func AuthMiddleware(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, time.Now(), nil, constants.MsgMissingToken, http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Parse(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				common.RespondError(w, time.Now(), nil, constants.MsgInvalidToken, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects guest tokens.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFrom(r.Context()); !ok {
			common.RespondError(w, time.Now(), nil, constants.MsgUserOnly, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest rejects registered-user tokens.
func RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.GuestIDFrom(r.Context()); !ok {
			common.RespondError(w, time.Now(), nil, constants.MsgGuestOnly, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
