package complaints_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/bulletin/internal/complaints"
	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters complaints.Filters) (*pagination.PageResult[complaints.Complaint], error)
	findFn   func(ctx context.Context, id string) (*complaints.Complaint, error)
	createFn func(ctx context.Context, cmd complaints.CreateCommand) (*complaints.Complaint, error)
	updateFn func(ctx context.Context, id string, cmd complaints.UpdateCommand) (*complaints.Complaint, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *complaints.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters complaints.Filters) (*pagination.PageResult[complaints.Complaint], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id string) (*complaints.Complaint, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd complaints.CreateCommand) (*complaints.Complaint, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id string, cmd complaints.UpdateCommand) (*complaints.Complaint, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *complaints.Handler {
	return complaints.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 10, MaxPageSize: 50},
		1<<20,
	)
}

func setupMux(h *complaints.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func formRequest(t *testing.T, method, target string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerListStatusFilter(t *testing.T) {
	var captured complaints.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, filters complaints.Filters) (*pagination.PageResult[complaints.Complaint], error) {
			captured = filters
			result := pagination.NewPageResult([]complaints.Complaint{sampleComplaint()}, 1, 1, 10)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/complaints?status=resolved&student_name=asha", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Status == nil || *captured.Status != complaints.StatusResolved {
		t.Errorf("status filter = %v", captured.Status)
	}
	if captured.StudentName == nil || *captured.StudentName != "asha" {
		t.Errorf("student_name filter = %v", captured.StudentName)
	}
}

func TestHandlerCreate(t *testing.T) {
	var captured complaints.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd complaints.CreateCommand) (*complaints.Complaint, error) {
			captured = cmd
			c := sampleComplaint()
			return &c, nil
		},
	}

	req := formRequest(t, "POST", "/complaints", map[string]string{
		"student_name":    "Asha Kumar",
		"subject":         "Hostel WiFi down",
		"description":     "No connectivity in block C.",
		"category_code":   "19",
		"department_code": "2",
	})
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got complaints.Complaint
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "CMP012" {
		t.Errorf("complaint_id = %s", got.ID)
	}
	if captured.Status != "" {
		t.Errorf("status = %q, want empty so the system applies the default", captured.Status)
	}
	if captured.StudentName != "Asha Kumar" {
		t.Errorf("student_name = %q", captured.StudentName)
	}
}

func TestHandlerCreateStorageOutage(t *testing.T) {
	sys := &mockSystem{
		createFn: func(context.Context, complaints.CreateCommand) (*complaints.Complaint, error) {
			return nil, fmt.Errorf("allocate complaint identifier: %w", sequence.ErrStorageUnavailable)
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, formRequest(t, "POST", "/complaints", map[string]string{"student_name": "Ravi", "subject": "Fan"}))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlerUpdate(t *testing.T) {
	var captured complaints.UpdateCommand
	sys := &mockSystem{
		updateFn: func(_ context.Context, id string, cmd complaints.UpdateCommand) (*complaints.Complaint, error) {
			if id != "CMP012" {
				return nil, complaints.ErrNotFound
			}
			captured = cmd
			c := sampleComplaint()
			return &c, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, formRequest(t, "PATCH", "/complaints/CMP012", map[string]string{
		"status":     "resolved",
		"resolution": "Router replaced.",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Status == nil || *captured.Status != complaints.StatusResolved {
		t.Errorf("status = %v", captured.Status)
	}
	if captured.Resolution == nil || *captured.Resolution != "Router replaced." {
		t.Errorf("resolution = %v", captured.Resolution)
	}
	if captured.Subject != nil {
		t.Errorf("subject = %q, want nil", *captured.Subject)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, formRequest(t, "PATCH", "/complaints/CMP404", map[string]string{"status": "resolved"}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(context.Context, string) error { return nil },
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("DELETE", "/complaints/CMP012", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHandlerFindNotFound(t *testing.T) {
	sys := &mockSystem{
		findFn: func(context.Context, string) (*complaints.Complaint, error) {
			return nil, complaints.ErrNotFound
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/complaints/CMP999", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandlerCreateJSON(t *testing.T) {
	var captured complaints.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd complaints.CreateCommand) (*complaints.Complaint, error) {
			captured = cmd
			c := sampleComplaint()
			return &c, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, jsonRequest("POST", "/complaints",
		`{"student_name":"Asha Kumar","subject":"Hostel WiFi down","category_code":"","department_code":"99","department_other":"Hostel Office"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if captured.StudentName != "Asha Kumar" || captured.Subject != "Hostel WiFi down" {
		t.Errorf("command = %+v", captured)
	}
	if c := captured.Classification.Category.Code; c == nil || *c != "" {
		t.Errorf("category code = %v, want present and empty", c)
	}
	if d := captured.Classification.Department; d.Code == nil || *d.Code != "99" || d.FreeText != "Hostel Office" {
		t.Errorf("department = %+v", d)
	}
	if !captured.Attachments.Empty() {
		t.Error("json requests carry no attachments")
	}
}

func TestHandlerUpdateJSON(t *testing.T) {
	var captured complaints.UpdateCommand
	sys := &mockSystem{
		updateFn: func(_ context.Context, _ string, cmd complaints.UpdateCommand) (*complaints.Complaint, error) {
			captured = cmd
			c := sampleComplaint()
			return &c, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, jsonRequest("PATCH", "/complaints/CMP012",
		`{"status":"resolved","resolution":"Router replaced."}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if captured.Status == nil || *captured.Status != complaints.StatusResolved {
		t.Errorf("status = %v", captured.Status)
	}
	if captured.Resolution == nil || *captured.Resolution != "Router replaced." {
		t.Errorf("resolution = %v", captured.Resolution)
	}
	if captured.Subject != nil || captured.StudentName != nil {
		t.Error("omitted fields should be nil")
	}
	if captured.Classification.Category.Code != nil || captured.Classification.Department.Code != nil {
		t.Errorf("classification should be absent: %+v", captured.Classification)
	}
}

func TestHandlerCreateIgnoresQueryFields(t *testing.T) {
	var captured complaints.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd complaints.CreateCommand) (*complaints.Complaint, error) {
			captured = cmd
			return nil, complaints.ErrInvalidInput
		},
	}

	req := formRequest(t, "POST", "/complaints?student_name=Intruder&status=resolved", map[string]string{"subject": "Fan"})
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if captured.StudentName != "" || captured.Status != "" {
		t.Errorf("query parameters leaked into the command: %+v", captured)
	}
}
