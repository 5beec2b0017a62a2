// Package apperr defines the business-rule error taxonomy shared by the
// service layer. Handlers map these to HTTP responses; anything that does not
// match a sentinel is treated as an internal persistence failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid state")
	ErrExpired       = errors.New("expired")
	ErrCodeMismatch  = errors.New("code mismatch")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
)

// Wrap attaches operation detail to a sentinel so callers can still match
// with errors.Is while users get an actionable message.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// Kind returns the machine-checkable kind string for an error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrExpired):
		return "Expired"
	case errors.Is(err, ErrCodeMismatch):
		return "CodeMismatch"
	case errors.Is(err, ErrInvalidAmount):
		return "InvalidAmount"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrValidation):
		return "Validation"
	default:
		return "Internal"
	}
}

// HTTPStatus maps an error to the status code its kind carries on the wire.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrExpired), errors.Is(err, ErrCodeMismatch),
		errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
