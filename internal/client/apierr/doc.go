// Package apierr classifies failed backend responses.
//
// The backend reports errors as a JSON envelope
//
//	{"type": "duplicate_date", "message": "...", "data": {"existing_log_id": "..."}}
//
// Classify turns any non-success response into an *Error, falling back to the
// HTTP status when the body is not such an envelope. The free-form data
// object is decoded into Value, a tagged JSON variant.
package apierr
