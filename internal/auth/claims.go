package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"travel-log/globetrotter/internal/constants"
)

// UserClaims is what handlers see of the authenticated caller.
type UserClaims interface {
	UserID() int64
	GuestID() string
	Email() string
	Role() string
	IsGuest() bool
	Source() string
}

// JWTClaims is the token payload for both users and guests. Users carry
// their numeric id in sub; guests carry a uuid in guest_id.
type JWTClaims struct {
	RoleValue  constants.Role `json:"role"`
	GuestUUID  string         `json:"guest_id,omitempty"`
	EmailValue string         `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTClaims) UserID() int64 {
	if c.RoleValue != constants.RoleUser {
		return 0
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (c *JWTClaims) GuestID() string { return c.GuestUUID }
func (c *JWTClaims) Email() string   { return c.EmailValue }
func (c *JWTClaims) Role() string    { return string(c.RoleValue) }
func (c *JWTClaims) IsGuest() bool   { return c.RoleValue == constants.RoleGuest }
func (c *JWTClaims) Source() string  { return "JWT" }
