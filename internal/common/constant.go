// Package common contains shared constants and sentinel errors used across
// Oculog components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer access
	// token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "
)

// DateLayout is the calendar-date wire format (YYYY-MM-DD) used by the backend.
const DateLayout = "2006-01-02"
