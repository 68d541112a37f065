package records_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/internal/taxonomy"
)

type allocatorMock struct {
	calls []sequence.Kind
	id    string
	err   error
}

func (m *allocatorMock) Allocate(_ context.Context, kind sequence.Kind) (string, error) {
	m.calls = append(m.calls, kind)
	if m.err != nil {
		return "", m.err
	}
	return m.id, nil
}

func ptr[T any](v T) *T {
	return &v
}

func TestPrepareCreate(t *testing.T) {
	alloc := &allocatorMock{id: "NTC003"}
	svc := records.NewService(alloc)

	got, err := svc.PrepareCreate(context.Background(), sequence.Notice, records.RawFields{
		Category:   records.RawAxis{Code: ptr("3"), FreeText: "stale"},
		Department: records.RawAxis{Code: ptr("99"), FreeText: "Philosophy Dept"},
	})
	require.NoError(t, err)

	assert.Equal(t, records.Prepared{
		ID:         "NTC003",
		Category:   taxonomy.Field{Code: "3", Label: "Emergency"},
		Department: taxonomy.Field{Code: "99", Label: "Philosophy Dept", FreeText: "Philosophy Dept"},
	}, got)
	assert.Equal(t, []sequence.Kind{sequence.Notice}, alloc.calls)
}

func TestPrepareCreateUsesKindTaxonomy(t *testing.T) {
	alloc := &allocatorMock{id: "CMP001"}
	svc := records.NewService(alloc)

	got, err := svc.PrepareCreate(context.Background(), sequence.Complaint, records.RawFields{
		Category:   records.RawAxis{Code: ptr("3")},
		Department: records.RawAxis{Code: ptr("1")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Exam Timetable Conflict", got.Category.Label)
	assert.Equal(t, "Computer Science & Engineering", got.Department.Label)
}

func TestPrepareCreateMissingCodeIsEmpty(t *testing.T) {
	svc := records.NewService(&allocatorMock{id: "NTC001"})

	got, err := svc.PrepareCreate(context.Background(), sequence.Notice, records.RawFields{
		Category: records.RawAxis{FreeText: "ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, taxonomy.Field{}, got.Category)
	assert.Equal(t, taxonomy.Field{}, got.Department)
}

func TestPrepareCreateAllocationFailure(t *testing.T) {
	alloc := &allocatorMock{err: sequence.ErrStorageUnavailable}
	svc := records.NewService(alloc)

	got, err := svc.PrepareCreate(context.Background(), sequence.Notice, records.RawFields{
		Category:   records.RawAxis{Code: ptr("1")},
		Department: records.RawAxis{Code: ptr("1")},
	})

	assert.ErrorIs(t, err, sequence.ErrStorageUnavailable)
	assert.Equal(t, records.Prepared{}, got)
}

func TestPrepareCreateUnknownKind(t *testing.T) {
	alloc := &allocatorMock{id: "X"}
	svc := records.NewService(alloc)

	_, err := svc.PrepareCreate(context.Background(), sequence.Kind("memo"), records.RawFields{})

	assert.ErrorIs(t, err, sequence.ErrUnknownKind)
	assert.Empty(t, alloc.calls)
}

func TestPrepareUpdate(t *testing.T) {
	svc := records.NewService(&allocatorMock{})

	tests := []struct {
		name    string
		raw     records.RawFields
		want    records.PatchSet
		wantErr error
	}{
		{
			name: "no axes",
			raw:  records.RawFields{},
			want: records.PatchSet{},
		},
		{
			name: "category only",
			raw: records.RawFields{
				Category: records.RawAxis{Code: ptr("2")},
			},
			want: records.PatchSet{
				Category: &taxonomy.Field{Code: "2", Label: "Event"},
			},
		},
		{
			name: "department other",
			raw: records.RawFields{
				Department: records.RawAxis{Code: ptr("99"), FreeText: "Philosophy Dept"},
			},
			want: records.PatchSet{
				Department: &taxonomy.Field{Code: "99", Label: "Philosophy Dept", FreeText: "Philosophy Dept"},
			},
		},
		{
			name: "empty code is present",
			raw: records.RawFields{
				Category: records.RawAxis{Code: ptr("")},
			},
			want: records.PatchSet{
				Category: &taxonomy.Field{},
			},
		},
		{
			name: "free text without code",
			raw: records.RawFields{
				Category: records.RawAxis{FreeText: "orphan"},
			},
			wantErr: records.ErrMalformedPatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.PrepareUpdate(sequence.Notice, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Category == nil && tt.want.Department == nil, got.Empty())
		})
	}
}

func TestPrepareUpdateUnknownKind(t *testing.T) {
	svc := records.NewService(&allocatorMock{})

	_, err := svc.PrepareUpdate(sequence.Kind("memo"), records.RawFields{})
	assert.True(t, errors.Is(err, sequence.ErrUnknownKind))
}

func TestFieldsFromForm(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   records.RawFields
	}{
		{
			name:   "absent",
			values: url.Values{"title": {"Fee deadline"}},
			want:   records.RawFields{},
		},
		{
			name: "both axes",
			values: url.Values{
				records.FormCategoryCode:    {"99"},
				records.FormCategoryOther:   {"Alumni Meet"},
				records.FormDepartmentCode:  {"2"},
				records.FormDepartmentOther: {""},
			},
			want: records.RawFields{
				Category:   records.RawAxis{Code: ptr("99"), FreeText: "Alumni Meet"},
				Department: records.RawAxis{Code: ptr("2")},
			},
		},
		{
			name:   "present but empty code",
			values: url.Values{records.FormCategoryCode: {""}},
			want: records.RawFields{
				Category: records.RawAxis{Code: ptr("")},
			},
		},
		{
			name:   "free text without code",
			values: url.Values{records.FormDepartmentOther: {"Philosophy"}},
			want: records.RawFields{
				Department: records.RawAxis{FreeText: "Philosophy"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, records.FieldsFromForm(tt.values))
		})
	}
}

func TestFieldsRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want records.RawFields
	}{
		{"absent", `{"title":"Fee deadline"}`, records.RawFields{}},
		{"null code is absent", `{"category_code":null}`, records.RawFields{}},
		{
			name: "present but empty code",
			body: `{"category_code":""}`,
			want: records.RawFields{Category: records.RawAxis{Code: ptr("")}},
		},
		{
			name: "both axes",
			body: `{"category_code":"99","category_other":"Alumni Meet","department_code":"2"}`,
			want: records.RawFields{
				Category:   records.RawAxis{Code: ptr("99"), FreeText: "Alumni Meet"},
				Department: records.RawAxis{Code: ptr("2")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req records.FieldsRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.Fields())
		})
	}
}
