package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenExpiry reads the exp claim without verifying the signature.
// The value is informational; the backend stays the authority on validity.
func accessTokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
