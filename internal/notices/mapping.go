package notices

import (
	"net/url"

	"github.com/JaimeStill/bulletin/pkg/query"
	"github.com/JaimeStill/bulletin/pkg/repository"
)

const columns = `notice_id, title, content,
	category_code, category_label, category_free_text,
	department_code, department_label, department_free_text,
	image_key, pdf_key, pdf_pages, created_at, updated_at`

var projection = query.
	NewProjectionMap("notices", "n").
	Project("notice_id", "notice_id").
	Project("title", "title").
	Project("content", "content").
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

// Filters contains optional filtering criteria for notice queries.
// Category and Department match the classification code exactly.
type Filters struct {
	Category   *string `json:"category,omitempty"`
	Department *string `json:"department,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("category_code", f.Category).
		WhereEquals("department_code", f.Department)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	return f
}

func scanNotice(s repository.Scanner) (Notice, error) {
	var n Notice
	err := s.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Category.Code,
		&n.Category.Label,
		&n.Category.FreeText,
		&n.Department.Code,
		&n.Department.Label,
		&n.Department.FreeText,
		&n.ImageKey,
		&n.PDFKey,
		&n.PDFPages,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}
