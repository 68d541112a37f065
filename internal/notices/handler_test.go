package notices_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/notices"
	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters notices.Filters) (*pagination.PageResult[notices.Notice], error)
	findFn   func(ctx context.Context, id string) (*notices.Notice, error)
	createFn func(ctx context.Context, cmd notices.CreateCommand) (*notices.Notice, error)
	updateFn func(ctx context.Context, id string, cmd notices.UpdateCommand) (*notices.Notice, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *notices.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters notices.Filters) (*pagination.PageResult[notices.Notice], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id string) (*notices.Notice, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd notices.CreateCommand) (*notices.Notice, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id string, cmd notices.UpdateCommand) (*notices.Notice, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *notices.Handler {
	return notices.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 10, MaxPageSize: 50},
		1<<20,
	)
}

func setupMux(h *notices.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestHandlerList(t *testing.T) {
	n := sampleNotice()
	var captured notices.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters notices.Filters) (*pagination.PageResult[notices.Notice], error) {
			captured = filters
			capturedPage = page
			result := pagination.NewPageResult([]notices.Notice{n}, 1, 1, 10)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/notices?category=5&department=2&page_size=500&sort=-title", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[notices.Notice]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].ID != "NTC001" {
		t.Errorf("data = %+v", result.Data)
	}
	if captured.Category == nil || *captured.Category != "5" {
		t.Errorf("category filter = %v", captured.Category)
	}
	if captured.Department == nil || *captured.Department != "2" {
		t.Errorf("department filter = %v", captured.Department)
	}
	if capturedPage.PageSize != 50 {
		t.Errorf("page size = %d, want clamped 50", capturedPage.PageSize)
	}
	if len(capturedPage.Sort) != 1 || !capturedPage.Sort[0].Descending {
		t.Errorf("sort = %+v", capturedPage.Sort)
	}
}

func TestHandlerSearch(t *testing.T) {
	var captured notices.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, filters notices.Filters) (*pagination.PageResult[notices.Notice], error) {
			captured = filters
			result := pagination.NewPageResult[notices.Notice](nil, 0, 1, 10)
			return &result, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("decodes filters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"page":1,"search":"exam","category":"3"}`)
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/notices/search", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Category == nil || *captured.Category != "3" {
			t.Errorf("category = %v", captured.Category)
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/notices/search", strings.NewReader("{")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id string) (*notices.Notice, error) {
			if id == "NTC001" {
				n := sampleNotice()
				return &n, nil
			}
			return nil, notices.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		path   string
		status int
	}{
		{"/notices/NTC001", http.StatusOK},
		{"/notices/NTC999", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandlerCreate(t *testing.T) {
	var captured notices.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd notices.CreateCommand) (*notices.Notice, error) {
			captured = cmd
			n := sampleNotice()
			return &n, nil
		},
	}

	body, contentType := multipartBody(t,
		map[string]string{
			"title":            "Semester exams",
			"content":          "Exams begin in April.",
			"category_code":    "5",
			"department_code":  "99",
			"department_other": "Humanities",
		},
		map[string][]byte{"image": append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 0)},
	)

	req := httptest.NewRequest("POST", "/notices", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var got notices.Notice
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "NTC001" {
		t.Errorf("notice_id = %s, want NTC001", got.ID)
	}

	if captured.Title != "Semester exams" {
		t.Errorf("title = %q", captured.Title)
	}
	if c := captured.Classification.Category.Code; c == nil || *c != "5" {
		t.Errorf("category code = %v", c)
	}
	if d := captured.Classification.Department; d.Code == nil || *d.Code != "99" || d.FreeText != "Humanities" {
		t.Errorf("department = %+v", d)
	}
	if captured.Attachments.Image == nil || captured.Attachments.Image.ContentType != "image/png" {
		t.Errorf("image attachment = %+v", captured.Attachments.Image)
	}
	if captured.Attachments.PDF != nil {
		t.Error("pdf attachment should be nil")
	}
}

func TestHandlerCreateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		files  map[string][]byte
		status int
	}{
		{"allocation outage", fmt.Errorf("allocate notice identifier: %w", sequence.ErrStorageUnavailable), nil, http.StatusServiceUnavailable},
		{"invalid input", fmt.Errorf("%w: title is required", notices.ErrInvalidInput), nil, http.StatusBadRequest},
		{"upload outage", fmt.Errorf("%w: image: timeout", attachments.ErrUploadFailed), nil, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), nil, http.StatusInternalServerError},
		{"bad image", nil, map[string][]byte{"image": []byte("not an image")}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				createFn: func(context.Context, notices.CreateCommand) (*notices.Notice, error) {
					return nil, tt.err
				},
			}

			body, contentType := multipartBody(t, map[string]string{"title": "t", "content": "c"}, tt.files)
			req := httptest.NewRequest("POST", "/notices", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandlerCreateTooLarge(t *testing.T) {
	sys := &mockSystem{}

	body, contentType := multipartBody(t, nil, map[string][]byte{"pdf": bytes.Repeat([]byte("%PDF-"), 1<<18)})
	req := httptest.NewRequest("POST", "/notices", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandlerUpdate(t *testing.T) {
	var capturedID string
	var captured notices.UpdateCommand
	sys := &mockSystem{
		updateFn: func(_ context.Context, id string, cmd notices.UpdateCommand) (*notices.Notice, error) {
			capturedID = id
			captured = cmd
			n := sampleNotice()
			return &n, nil
		},
	}

	body, contentType := multipartBody(t, map[string]string{"title": "Revised"}, nil)
	req := httptest.NewRequest("PATCH", "/notices/NTC001", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if capturedID != "NTC001" {
		t.Errorf("id = %s", capturedID)
	}
	if captured.Title == nil || *captured.Title != "Revised" {
		t.Errorf("title = %v", captured.Title)
	}
	if captured.Content != nil {
		t.Errorf("content = %q, want nil", *captured.Content)
	}
	if captured.Classification.Category.Code != nil || captured.Classification.Department.Code != nil {
		t.Errorf("classification should be absent: %+v", captured.Classification)
	}
	if !captured.Attachments.Empty() {
		t.Error("attachments should be empty")
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id string) error {
			if id == "NTC001" {
				return nil
			}
			return notices.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/notices/NTC001", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/notices/NTC404", nil))
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
	var captured notices.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd notices.CreateCommand) (*notices.Notice, error) {
			captured = cmd
			n := sampleNotice()
			return &n, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, jsonRequest("POST", "/notices",
		`{"title":"Semester exams","content":"Exams begin in April.","category_code":"5","department_code":"2"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if captured.Title != "Semester exams" || captured.Content != "Exams begin in April." {
		t.Errorf("command = %+v", captured)
	}
	if c := captured.Classification.Category.Code; c == nil || *c != "5" {
		t.Errorf("category code = %v", c)
	}
	if d := captured.Classification.Department.Code; d == nil || *d != "2" {
		t.Errorf("department code = %v", d)
	}
	if !captured.Attachments.Empty() {
		t.Error("json requests carry no attachments")
	}
}

func TestHandlerUpdateJSON(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantTitle    *string
		wantCategory *string
	}{
		{"title only", `{"title":"Revised"}`, ptr("Revised"), nil},
		{"present empty category", `{"category_code":""}`, nil, ptr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured notices.UpdateCommand
			sys := &mockSystem{
				updateFn: func(_ context.Context, _ string, cmd notices.UpdateCommand) (*notices.Notice, error) {
					captured = cmd
					n := sampleNotice()
					return &n, nil
				},
			}

			rec := httptest.NewRecorder()
			setupMux(newTestHandler(sys)).ServeHTTP(rec, jsonRequest("PATCH", "/notices/NTC001", tt.body))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if (captured.Title == nil) != (tt.wantTitle == nil) ||
				(captured.Title != nil && *captured.Title != *tt.wantTitle) {
				t.Errorf("title = %v, want %v", captured.Title, tt.wantTitle)
			}
			if captured.Content != nil {
				t.Errorf("content = %q, want nil", *captured.Content)
			}
			got := captured.Classification.Category.Code
			if (got == nil) != (tt.wantCategory == nil) ||
				(got != nil && *got != *tt.wantCategory) {
				t.Errorf("category code = %v, want %v", got, tt.wantCategory)
			}
			if captured.Classification.Department.Code != nil {
				t.Error("department should be absent")
			}
		})
	}
}

func TestHandlerCreateMalformedJSON(t *testing.T) {
	sys := &mockSystem{
		createFn: func(context.Context, notices.CreateCommand) (*notices.Notice, error) {
			t.Fatal("create should not be called")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, jsonRequest("POST", "/notices", `{"title":`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerCreateIgnoresQueryFields(t *testing.T) {
	var captured notices.CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd notices.CreateCommand) (*notices.Notice, error) {
			captured = cmd
			return nil, notices.ErrInvalidInput
		},
	}

	body, contentType := multipartBody(t, map[string]string{"content": "Exams begin in April."}, nil)
	req := httptest.NewRequest("POST", "/notices?title=Injected", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, req)

	if captured.Title != "" {
		t.Errorf("title = %q, want empty: query parameters must not fill body fields", captured.Title)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
