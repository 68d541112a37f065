// Package complaints implements the complaint domain: student grievances
// classified by category and department, identified by CMP sequence codes,
// tracked through a review status and an administrative resolution.
package complaints

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/taxonomy"
)

// Status is the review state of a complaint.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses returns every known status.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint is a persisted complaint.
type Complaint struct {
	ID          string         `json:"complaint_id"`
	StudentName string         `json:"student_name"`
	Status      Status         `json:"status"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Resolution  string         `json:"resolution"`
	Category    taxonomy.Field `json:"category"`
	Department  taxonomy.Field `json:"department"`
	ImageKey    *string        `json:"image_key"`
	PDFKey      *string        `json:"pdf_key"`
	PDFPages    *int           `json:"pdf_pages"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateCommand carries a new complaint as submitted. An empty Status
// defaults to pending.
type CreateCommand struct {
	StudentName    string
	Status         Status
	Subject        string
	Description    string
	Resolution     string
	Classification records.RawFields
	Attachments    attachments.Upload
}

func (c *CreateCommand) validate() error {
	c.StudentName = strings.TrimSpace(c.StudentName)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Description = strings.TrimSpace(c.Description)

	if c.StudentName == "" {
		return fmt.Errorf("%w: student_name is required", ErrInvalidInput)
	}
	if c.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, c.Status)
	}
	return nil
}

// UpdateCommand carries a partial update. Nil fields and absent
// classification axes are left unchanged; attachments replace the stored ones.
type UpdateCommand struct {
	StudentName    *string
	Status         *Status
	Subject        *string
	Description    *string
	Resolution     *string
	Classification records.RawFields
	Attachments    attachments.Upload
}

func (c *UpdateCommand) validate() error {
	if c.StudentName != nil {
		*c.StudentName = strings.TrimSpace(*c.StudentName)
		if *c.StudentName == "" {
			return fmt.Errorf("%w: student_name cannot be empty", ErrInvalidInput)
		}
	}
	if c.Subject != nil {
		*c.Subject = strings.TrimSpace(*c.Subject)
		if *c.Subject == "" {
			return fmt.Errorf("%w: subject cannot be empty", ErrInvalidInput)
		}
	}
	if c.Status != nil && !c.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *c.Status)
	}
	return nil
}
