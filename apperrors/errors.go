package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the domain. Services wrap them with context via
// fmt.Errorf("...: %w", Err...) and handlers map them to HTTP statuses
// with Status().
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrSignatureMismatch  = errors.New("signature mismatch")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrStorage            = errors.New("storage error")
)

// Validationf wraps ErrValidation with a caller-facing message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Status maps a domain error to its HTTP status code. Unrecognized errors
// map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrSignatureMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrGatewayUnavailable), errors.Is(err, ErrStorage):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether the caller may safely retry the failed request
// with the same idempotency key.
func Retryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}
