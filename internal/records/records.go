// Package records prepares notices and complaints for persistence: it
// normalizes the category and department axes through the taxonomy resolver
// and, for new records, allocates the sequence identifier.
package records

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/internal/taxonomy"
)

// ErrMalformedPatch indicates a patch supplied free text for an axis without its code.
var ErrMalformedPatch = errors.New("malformed classification patch")

// Allocator issues record identifiers.
type Allocator interface {
	Allocate(ctx context.Context, kind sequence.Kind) (string, error)
}

// RawAxis is one classification axis as submitted. A nil Code means the axis
// was not supplied.
type RawAxis struct {
	Code     *string
	FreeText string
}

// RawFields carries both submitted classification axes.
type RawFields struct {
	Category   RawAxis
	Department RawAxis
}

// Form keys carrying the classification axes.
const (
	FormCategoryCode    = "category_code"
	FormCategoryOther   = "category_other"
	FormDepartmentCode  = "department_code"
	FormDepartmentOther = "department_other"
)

// FieldsFromForm reads both axes from submitted form values. A code key that
// is present with an empty value is kept as a present, empty code.
func FieldsFromForm(values url.Values) RawFields {
	return RawFields{
		Category:   axisFromForm(values, FormCategoryCode, FormCategoryOther),
		Department: axisFromForm(values, FormDepartmentCode, FormDepartmentOther),
	}
}

func axisFromForm(values url.Values, codeKey, otherKey string) RawAxis {
	axis := RawAxis{FreeText: values.Get(otherKey)}
	if values.Has(codeKey) {
		code := values.Get(codeKey)
		axis.Code = &code
	}
	return axis
}

// FieldsRequest is the JSON shape of both axes. A nil or null code means
// the axis was not supplied; an empty string is a present, empty code.
type FieldsRequest struct {
	CategoryCode    *string `json:"category_code"`
	CategoryOther   string  `json:"category_other"`
	DepartmentCode  *string `json:"department_code"`
	DepartmentOther string  `json:"department_other"`
}

// Fields converts the request into RawFields.
func (f FieldsRequest) Fields() RawFields {
	return RawFields{
		Category:   RawAxis{Code: f.CategoryCode, FreeText: f.CategoryOther},
		Department: RawAxis{Code: f.DepartmentCode, FreeText: f.DepartmentOther},
	}
}

// Prepared is a new record's identifier and resolved classification.
type Prepared struct {
	ID         string
	Category   taxonomy.Field
	Department taxonomy.Field
}

// PatchSet holds the resolved axes of an update. A nil axis is unchanged.
type PatchSet struct {
	Category   *taxonomy.Field
	Department *taxonomy.Field
}

// Empty reports whether the patch leaves both axes unchanged.
func (p PatchSet) Empty() bool {
	return p.Category == nil && p.Department == nil
}

// Service assembles classification and identifiers for record writes.
type Service struct {
	alloc      Allocator
	taxonomies map[sequence.Kind]taxonomy.Set
}

// NewService creates a Service wired to the standard notice and complaint taxonomies.
func NewService(alloc Allocator) *Service {
	return &Service{
		alloc: alloc,
		taxonomies: map[sequence.Kind]taxonomy.Set{
			sequence.Notice:    taxonomy.Notices,
			sequence.Complaint: taxonomy.Complaints,
		},
	}
}

// PrepareCreate resolves both axes and allocates an identifier for kind.
// A create always carries both axes; a missing code is stored as an empty,
// unrecognized code. If allocation fails no Prepared value is returned and the
// caller must not persist a record.
func (s *Service) PrepareCreate(ctx context.Context, kind sequence.Kind, raw RawFields) (Prepared, error) {
	set, err := s.taxonomy(kind)
	if err != nil {
		return Prepared{}, err
	}

	category := resolvePresent(set.Categories, raw.Category)
	department := resolvePresent(set.Departments, raw.Department)

	id, err := s.alloc.Allocate(ctx, kind)
	if err != nil {
		return Prepared{}, fmt.Errorf("allocate %s identifier: %w", kind, err)
	}

	return Prepared{
		ID:         id,
		Category:   category,
		Department: department,
	}, nil
}

// PrepareUpdate resolves only the axes present in raw. Each axis is resolved
// independently; an axis without a code is left nil in the PatchSet.
func (s *Service) PrepareUpdate(kind sequence.Kind, raw RawFields) (PatchSet, error) {
	set, err := s.taxonomy(kind)
	if err != nil {
		return PatchSet{}, err
	}

	category, err := resolvePatch(set.Categories, raw.Category)
	if err != nil {
		return PatchSet{}, fmt.Errorf("category: %w", err)
	}

	department, err := resolvePatch(set.Departments, raw.Department)
	if err != nil {
		return PatchSet{}, fmt.Errorf("department: %w", err)
	}

	return PatchSet{
		Category:   category,
		Department: department,
	}, nil
}

func (s *Service) taxonomy(kind sequence.Kind) (taxonomy.Set, error) {
	set, ok := s.taxonomies[kind]
	if !ok {
		return taxonomy.Set{}, fmt.Errorf("%w: %q", sequence.ErrUnknownKind, kind)
	}
	return set, nil
}

func resolvePresent(t taxonomy.Table, axis RawAxis) taxonomy.Field {
	code := ""
	if axis.Code != nil {
		code = *axis.Code
	}
	return taxonomy.Resolve(t, &code, axis.FreeText).Field
}

func resolvePatch(t taxonomy.Table, axis RawAxis) (*taxonomy.Field, error) {
	if axis.Code == nil && axis.FreeText != "" {
		return nil, ErrMalformedPatch
	}

	res := taxonomy.Resolve(t, axis.Code, axis.FreeText)
	if !res.Changed {
		return nil, nil
	}
	return &res.Field, nil
}
