// Package apperr defines the sentinel errors services wrap with %w. The HTTP
// boundary translates them to status codes in one place; everything below it
// only deals in these values.
package apperr

import "errors"

var (
	// ErrValidation marks missing or malformed input. 400.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedMedia marks a file whose extension or MIME type is not
	// on the allow-list. 400.
	ErrUnsupportedMedia = errors.New("unsupported file type")

	// ErrPayloadTooLarge marks an upload over the configured ceiling. 400.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrDuplicate marks a unique-constraint violation. 400.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrUnauthorized marks missing or invalid credentials. 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks an absent record or file. 404.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks an unreachable or unconfigured external
	// dependency. 503.
	ErrUnavailable = errors.New("service unavailable")
)
