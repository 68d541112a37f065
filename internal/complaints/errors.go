package complaints

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/sequence"
)

// Domain errors for complaint operations.
var (
	ErrNotFound     = errors.New("complaint not found")
	ErrDuplicate    = errors.New("complaint already exists")
	ErrInvalidInput = errors.New("invalid complaint")
)

// MapHTTPStatus maps complaint domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, records.ErrMalformedPatch):
		return http.StatusBadRequest
	case errors.Is(err, sequence.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return attachments.MapHTTPStatus(err)
	}
}
