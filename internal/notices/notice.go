// Package notices implements the notice domain: institutional announcements
// classified by category and department, identified by NTC sequence codes,
// with optional image and PDF attachments.
package notices

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/taxonomy"
)

// Notice is a persisted notice.
type Notice struct {
	ID         string         `json:"notice_id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Category   taxonomy.Field `json:"category"`
	Department taxonomy.Field `json:"department"`
	ImageKey   *string        `json:"image_key"`
	PDFKey     *string        `json:"pdf_key"`
	PDFPages   *int           `json:"pdf_pages"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CreateCommand carries a new notice as submitted.
type CreateCommand struct {
	Title          string
	Content        string
	Classification records.RawFields
	Attachments    attachments.Upload
}

func (c *CreateCommand) validate() error {
	c.Title = strings.TrimSpace(c.Title)
	c.Content = strings.TrimSpace(c.Content)

	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if c.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	return nil
}

// UpdateCommand carries a partial update. Nil fields and absent
// classification axes are left unchanged; attachments replace the stored ones.
type UpdateCommand struct {
	Title          *string
	Content        *string
	Classification records.RawFields
	Attachments    attachments.Upload
}

func (c *UpdateCommand) validate() error {
	if c.Title != nil {
		*c.Title = strings.TrimSpace(*c.Title)
		if *c.Title == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
	}
	if c.Content != nil {
		*c.Content = strings.TrimSpace(*c.Content)
		if *c.Content == "" {
			return fmt.Errorf("%w: content cannot be empty", ErrInvalidInput)
		}
	}
	return nil
}
