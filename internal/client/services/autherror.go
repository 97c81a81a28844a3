package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/oculog/internal/client/apierr"
	"github.com/dmitrijs2005/oculog/internal/client/client"
)

type AuthErrorKind int

const (
	AuthInvalidCredentials AuthErrorKind = iota
	AuthEmailAlreadyExists
	AuthUnauthorized
	AuthNetworkError
	AuthServerError
)

// AuthError is the narrowed failure of a login, signup or identity check.
// Code is the HTTP status for AuthServerError, 0 when there was none.
type AuthError struct {
	Kind AuthErrorKind
	Code int
	Err  error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthInvalidCredentials:
		return "Invalid email or password"
	case AuthEmailAlreadyExists:
		return "Email already registered"
	case AuthUnauthorized:
		return "Session expired. Please log in again."
	case AuthNetworkError:
		return "Could not reach the server"
	default:
		if e.Code == 0 {
			return "Unexpected server response"
		}
		return fmt.Sprintf("Server error (%d)", e.Code)
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// NarrowAuthError maps a client error onto the auth taxonomy.
func NarrowAuthError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		// Without an envelope a 400 from the auth endpoints means the email
		// is taken.
		if apiErr.Fallback && apiErr.Status == http.StatusBadRequest {
			return &AuthError{Kind: AuthEmailAlreadyExists, Code: apiErr.Status, Err: err}
		}
		switch apiErr.Kind {
		case apierr.InvalidCredentials:
			return &AuthError{Kind: AuthInvalidCredentials, Code: apiErr.Status, Err: err}
		case apierr.EmailAlreadyExists:
			return &AuthError{Kind: AuthEmailAlreadyExists, Code: apiErr.Status, Err: err}
		case apierr.Unauthorized:
			return &AuthError{Kind: AuthUnauthorized, Code: apiErr.Status, Err: err}
		default:
			return &AuthError{Kind: AuthServerError, Code: apiErr.Status, Err: err}
		}
	}

	if errors.Is(err, client.ErrUnavailable) {
		return &AuthError{Kind: AuthNetworkError, Err: err}
	}
	return &AuthError{Kind: AuthServerError, Err: err}
}
