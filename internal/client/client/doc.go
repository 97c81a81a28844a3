// Package client talks to the Oculog REST backend.
//
// # Overview
//
// Client is the transport contract used by the services layer: health,
// login/signup/refresh, identity, the condition log resource and weather.
// HTTPClient implements it over net/http with JSON bodies.
//
// # Authorization
//
// Log list and mutation calls take their bearer token from a TokenSource.
// When such a call is rejected as unauthorized, HTTPClient asks the source to
// refresh once and, if that succeeds, repeats the call with the new token.
// Me takes the token explicitly and never refreshes. Weather attaches the
// current token when there is one and never refreshes.
//
// # Error Handling
//
//   - ErrUnavailable wraps transport failures (no HTTP response).
//   - *apierr.Error is returned for every non-success status.
//   - ErrDecode wraps responses whose body does not match the expected shape.
package client
