package client

import "errors"

var (
	// ErrUnavailable means no HTTP response arrived: refused connection,
	// DNS failure, timeout or a cancelled context.
	ErrUnavailable = errors.New("server unavailable")
	// ErrDecode means the backend answered but the body could not be read
	// into the expected shape.
	ErrDecode = errors.New("unexpected server response")
)
