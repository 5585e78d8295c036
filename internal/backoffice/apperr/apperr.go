// Package apperr defines the closed set of error kinds the application can
// surface, and the single mapping from kind to HTTP status. Services attach a
// kind where the failure is understood; everything unclassified is Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags a failure with its category.
type Kind int

const (
	// Internal is the zero kind: an unexpected failure.
	Internal Kind = iota
	// Unauthorized means no valid identity was presented.
	Unauthorized
	// Forbidden means a valid identity lacks the required role, or is
	// reaching across a tenant boundary.
	Forbidden
	// NotFound means the entity is absent, or access-equivalent-to-absent.
	NotFound
	// Validation means the input is malformed.
	Validation
	// Conflict means a uniqueness constraint was violated.
	Conflict
	// Expired means a time-limited entity is past its expiry.
	Expired
	// Unavailable means a required dependency is missing or unreachable.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case Expired:
		return "expired"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// HTTPStatus is the one place a kind becomes a status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation, Conflict, Expired:
		return http.StatusBadRequest
	case Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a kinded application error. Message is safe to show to callers;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error keeping cause for logging and unwrapping.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf extracts the kind from err, or Internal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the caller-safe message, or a generic fallback for
// untagged errors so internals never leak into responses.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
