package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Kind is the backend's error type.
type Kind string

const (
	InvalidCredentials Kind = "invalid_credentials"
	Unauthorized       Kind = "unauthorized"
	EmailAlreadyExists Kind = "email_already_exists"
	NotFound           Kind = "not_found"
	Forbidden          Kind = "forbidden"
	DuplicateDate      Kind = "duplicate_date"
	ValidationError    Kind = "validation_error"
	ServiceUnavailable Kind = "service_unavailable"
	BadGateway         Kind = "bad_gateway"
	ServerError        Kind = "server_error"
	Unknown            Kind = "unknown"
)

var knownKinds = map[Kind]struct{}{
	InvalidCredentials: {},
	Unauthorized:       {},
	EmailAlreadyExists: {},
	NotFound:           {},
	Forbidden:          {},
	DuplicateDate:      {},
	ValidationError:    {},
	ServiceUnavailable: {},
	BadGateway:         {},
	ServerError:        {},
	Unknown:            {},
}

// ParseKind maps a wire type to a Kind. Unrecognized types are Unknown.
func ParseKind(s string) Kind {
	k := Kind(s)
	if _, ok := knownKinds[k]; ok {
		return k
	}
	return Unknown
}

// Error is a classified backend failure.
type Error struct {
	Kind    Kind
	Message string
	Data    map[string]Value
	Status  int
	// Fallback is set when the body was not an error envelope and Kind was
	// derived from Status.
	Fallback bool
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (%d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// DataString returns data[key] when it is a string.
func (e *Error) DataString(key string) (string, bool) {
	if e == nil || e.Data == nil {
		return "", false
	}
	v, ok := e.Data[key]
	if !ok {
		return "", false
	}
	return v.Str()
}

// ExistingLogID is the id of the entry that already occupies the date of a
// duplicate_date failure.
func (e *Error) ExistingLogID() (uuid.UUID, bool) {
	s, ok := e.DataString("existing_log_id")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// ResourceID and ResourceType describe the subject of not_found and
// forbidden failures when the backend includes them.
func (e *Error) ResourceID() (string, bool)   { return e.DataString("id") }
func (e *Error) ResourceType() (string, bool) { return e.DataString("resource") }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err wraps an *Error of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

type envelope struct {
	Type    *string          `json:"type"`
	Message string           `json:"message"`
	Data    map[string]Value `json:"data"`
}

// Classify builds the *Error for a non-success response.
func Classify(status int, body []byte) *Error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Type != nil {
		return &Error{
			Kind:    ParseKind(*env.Type),
			Message: env.Message,
			Data:    env.Data,
			Status:  status,
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &Error{
		Kind:     kindForStatus(status),
		Message:  msg,
		Status:   status,
		Fallback: true,
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ValidationError
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusNotFound:
		return NotFound
	case status == http.StatusConflict:
		return DuplicateDate
	case status == http.StatusBadGateway:
		return BadGateway
	case status == http.StatusServiceUnavailable:
		return ServiceUnavailable
	case status >= 500 && status < 600:
		return ServerError
	default:
		return Unknown
	}
}
