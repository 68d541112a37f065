package students

import (
	"errors"
	"net/http"
)

// Domain errors for student operations.
var (
	ErrInvalidCredentials = errors.New("invalid register number or password")
	ErrDuplicate          = errors.New("student already registered")
	ErrInvalidInput       = errors.New("invalid student")
)

// MapHTTPStatus maps student domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
