package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"travel-log/globetrotter/internal/constants"
)

var ErrInvalidToken = errors.New("invalid token")

const issuer = "globetrotter"

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) IssueUser(userID int64, email string) (string, time.Time, error) {
	return i.sign(&JWTClaims{
		RoleValue:        constants.RoleUser,
		EmailValue:       email,
		RegisteredClaims: i.registered(strconv.FormatInt(userID, 10)),
	})
}

func (i *TokenIssuer) IssueGuest(guestID string) (string, time.Time, error) {
	return i.sign(&JWTClaims{
		RoleValue:        constants.RoleGuest,
		GuestUUID:        guestID,
		RegisteredClaims: i.registered("guest:" + guestID),
	})
}

// Parse verifies the signature and expiry and returns the claims.
func (i *TokenIssuer) Parse(token string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	switch claims.RoleValue {
	case constants.RoleUser:
		if claims.UserID() == 0 {
			return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
		}
	case constants.RoleGuest:
		if claims.GuestUUID == "" {
			return nil, fmt.Errorf("%w: missing guest id", ErrInvalidToken)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.RoleValue)
	}
	return claims, nil
}

func (i *TokenIssuer) registered(subject string) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
}

func (i *TokenIssuer) sign(claims *JWTClaims) (string, time.Time, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}
