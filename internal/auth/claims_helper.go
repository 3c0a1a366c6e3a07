package auth

import "context"

// UserIDFrom returns the registered user id carried by ctx.
func UserIDFrom(ctx context.Context) (int64, bool) {
	claims := GetUserClaims(ctx)
	if claims == nil || claims.IsGuest() || claims.UserID() == 0 {
		return 0, false
	}
	return claims.UserID(), true
}

// GuestIDFrom returns the guest id carried by ctx.
func GuestIDFrom(ctx context.Context) (string, bool) {
	claims := GetUserClaims(ctx)
	if claims == nil || !claims.IsGuest() || claims.GuestID() == "" {
		return "", false
	}
	return claims.GuestID(), true
}
