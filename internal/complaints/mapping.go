package complaints

import (
	"net/url"

	"github.com/JaimeStill/bulletin/pkg/query"
	"github.com/JaimeStill/bulletin/pkg/repository"
)

const columns = `complaint_id, student_name, status, subject, description, resolution,
	category_code, category_label, category_free_text,
	department_code, department_label, department_free_text,
	image_key, pdf_key, pdf_pages, created_at, updated_at`

var projection = query.
	NewProjectionMap("complaints", "c").
	Project("complaint_id", "complaint_id").
	Project("student_name", "student_name").
	Project("status", "status").
	Project("subject", "subject").
	Project("description", "description").
	Project("resolution", "resolution").
	Project("category_code", "category_code").
	Project("category_label", "category_label").
	Project("category_free_text", "category_free_text").
	Project("department_code", "department_code").
	Project("department_label", "department_label").
	Project("department_free_text", "department_free_text").
	Project("image_key", "image_key").
	Project("pdf_key", "pdf_key").
	Project("pdf_pages", "pdf_pages").
	Project("created_at", "created_at").
	Project("updated_at", "updated_at")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for complaint queries.
// Status, Category, and Department use exact matching; StudentName uses
// case-insensitive contains matching.
type Filters struct {
	Status      *Status `json:"status,omitempty"`
	Category    *string `json:"category,omitempty"`
	Department  *string `json:"department,omitempty"`
	StudentName *string `json:"student_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	return b.
		WhereEquals("status", status).
		WhereEquals("category_code", f.Category).
		WhereEquals("department_code", f.Department).
		WhereContains("student_name", f.StudentName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := Status(s)
		f.Status = &status
	}

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	if n := values.Get("student_name"); n != "" {
		f.StudentName = &n
	}

	return f
}

func scanComplaint(s repository.Scanner) (Complaint, error) {
	var c Complaint
	err := s.Scan(
		&c.ID,
		&c.StudentName,
		&c.Status,
		&c.Subject,
		&c.Description,
		&c.Resolution,
		&c.Category.Code,
		&c.Category.Label,
		&c.Category.FreeText,
		&c.Department.Code,
		&c.Department.Label,
		&c.Department.FreeText,
		&c.ImageKey,
		&c.PDFKey,
		&c.PDFPages,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}
