package errs

import (
	"errors"
	"net/http"
)

// Sentinel failure kinds surfaced by the core packages. Handlers wrap these
// with fmt.Errorf("...: %w", ...) and the boundary maps them to HTTP codes
// via Status. Storage-engine errors must never cross the boundary directly;
// wrap them with ErrUnavailable instead.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

// Status maps a failure to its HTTP status code. Unknown errors are treated
// as Unavailable so internal details never leak.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}
