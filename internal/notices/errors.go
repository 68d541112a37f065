package notices

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/sequence"
)

// Domain errors for notice operations.
var (
	ErrNotFound     = errors.New("notice not found")
	ErrDuplicate    = errors.New("notice already exists")
	ErrInvalidInput = errors.New("invalid notice")
)

// MapHTTPStatus maps notice domain errors to appropriate HTTP status codes.
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
