package attachments

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/bulletin/pkg/storage"
)

var (
	ErrInvalidImage   = errors.New("image attachment is not an image")
	ErrInvalidPDF     = errors.New("pdf attachment is not a readable PDF")
	ErrTooManyFiles   = errors.New("at most one file per attachment field")
	ErrEmptyFile      = errors.New("attachment is empty")
	ErrUploadFailed   = errors.New("attachment upload failed")
	ErrTooLarge       = errors.New("request exceeds maximum upload size")
	ErrMalformedForm  = errors.New("request is not a valid multipart form")
	ErrMalformedJSON  = errors.New("request body is not valid JSON")
	ErrUnknownBlobKey = errors.New("attachment not found")
)

// MapHTTPStatus maps attachment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidImage),
		errors.Is(err, ErrInvalidPDF),
		errors.Is(err, ErrTooManyFiles),
		errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrMalformedForm),
		errors.Is(err, ErrMalformedJSON):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUploadFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnknownBlobKey):
		return http.StatusNotFound
	default:
		return storage.MapHTTPStatus(err)
	}
}
