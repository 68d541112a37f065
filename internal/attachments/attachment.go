// Package attachments validates the image and PDF files submitted with
// notices and complaints and manages their blobs in storage.
package attachments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Multipart field names carrying attachments.
const (
	FieldImage = "image"
	FieldPDF   = "pdf"
)

const contentTypePDF = "application/pdf"

// File is a validated attachment held in memory until it is uploaded.
// Pages is the page count for PDFs and zero for images.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}

// Upload carries the attachments submitted with one request. Either file may be nil.
type Upload struct {
	Image *File
	PDF   *File
}

// Empty reports whether no attachment was submitted.
func (u Upload) Empty() bool {
	return u.Image == nil && u.PDF == nil
}

// Stored reports the blob keys written for an Upload. Nil keys were not uploaded.
type Stored struct {
	ImageKey *string
	PDFKey   *string
	PDFPages *int
}

// Keys returns the keys that were written.
func (s Stored) Keys() []string {
	var keys []string
	if s.ImageKey != nil {
		keys = append(keys, *s.ImageKey)
	}
	if s.PDFKey != nil {
		keys = append(keys, *s.PDFKey)
	}
	return keys
}

// ParseMultipart parses a multipart request body no larger than maxSize
// bytes. Oversized bodies fail with ErrTooLarge, anything else unreadable
// with ErrMalformedForm.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) (*multipart.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedForm, err)
	}

	return r.MultipartForm, nil
}

// IsJSON reports whether the request declares a JSON body.
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// DecodeJSON decodes a JSON request body no larger than maxSize bytes into
// dst. JSON requests carry no attachments. Oversized bodies fail with
// ErrTooLarge, anything else undecodable with ErrMalformedJSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxSize int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrTooLarge
		}
		return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return nil
}

// ReadForm extracts and validates the image and pdf parts of a parsed
// multipart form. Content types are sniffed from the file data; the
// client-declared type is ignored.
func ReadForm(form *multipart.Form) (Upload, error) {
	var u Upload
	if form == nil {
		return u, nil
	}

	image, err := readPart(form, FieldImage)
	if err != nil {
		return u, err
	}
	if image != nil {
		if !strings.HasPrefix(image.ContentType, "image/") {
			return u, fmt.Errorf("%w: detected %s", ErrInvalidImage, image.ContentType)
		}
		u.Image = image
	}

	pdf, err := readPart(form, FieldPDF)
	if err != nil {
		return u, err
	}
	if pdf != nil {
		if pdf.ContentType != contentTypePDF {
			return u, fmt.Errorf("%w: detected %s", ErrInvalidPDF, pdf.ContentType)
		}

		pages, err := api.PageCount(bytes.NewReader(pdf.Data), nil)
		if err != nil {
			return u, fmt.Errorf("%w: %w", ErrInvalidPDF, err)
		}
		pdf.Pages = pages
		u.PDF = pdf
	}

	return u, nil
}

func readPart(form *multipart.Form, field string) (*File, error) {
	headers := form.File[field]
	switch len(headers) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrTooManyFiles, field)
	}

	header := headers[0]
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s part: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s part: %w", field, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, field)
	}

	return &File{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
