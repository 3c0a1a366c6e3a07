package middleware

import (
	"net/http"
	"time"

	"travel-log/globetrotter/internal/auth"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/constants"
)

// IsAdminMiddleware allows registered users whose email is on ADMIN_EMAILS.
func IsAdminMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.IsGuest() || !cfg.IsAdmin(claims.Email()) {
				common.RespondError(w, time.Now(), nil, constants.MsgAdminOnly, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
