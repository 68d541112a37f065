package complaints

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/JaimeStill/bulletin/internal/attachments"
	"github.com/JaimeStill/bulletin/internal/records"
	"github.com/JaimeStill/bulletin/pkg/handlers"
	"github.com/JaimeStill/bulletin/pkg/pagination"
	"github.com/JaimeStill/bulletin/pkg/routes"
)

// Handler provides HTTP endpoints for complaint operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "complaints"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for complaint endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/complaints",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of complaints with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single complaint by its identifier.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching complaints.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateRequest is the JSON body accepted by Create. JSON requests carry no attachments.
type CreateRequest struct {
	StudentName string `json:"student_name"`
	Status      Status `json:"status"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Resolution  string `json:"resolution"`
	records.FieldsRequest
}

// UpdateRequest is the JSON body accepted by Update. Omitted fields are left unchanged.
type UpdateRequest struct {
	StudentName *string `json:"student_name"`
	Status      *Status `json:"status"`
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Resolution  *string `json:"resolution"`
	records.FieldsRequest
}

// Create files a complaint from either a JSON body or a multipart form with
// optional image and pdf parts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.createCommand(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Update applies a partial update, including status changes and the
// administrative resolution, from either a JSON body or a multipart form.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.updateCommand(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	c, err := h.sys.Update(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

func (h *Handler) createCommand(w http.ResponseWriter, r *http.Request) (CreateCommand, error) {
	if attachments.IsJSON(r) {
		var req CreateRequest
		if err := attachments.DecodeJSON(w, r, h.maxUploadSize, &req); err != nil {
			return CreateCommand{}, err
		}
		return CreateCommand{
			StudentName:    req.StudentName,
			Status:         req.Status,
			Subject:        req.Subject,
			Description:    req.Description,
			Resolution:     req.Resolution,
			Classification: req.Fields(),
		}, nil
	}

	form, err := attachments.ParseMultipart(w, r, h.maxUploadSize)
	if err != nil {
		return CreateCommand{}, err
	}

	upload, err := attachments.ReadForm(form)
	if err != nil {
		return CreateCommand{}, err
	}

	return CreateCommand{
		StudentName:    url.Values(form.Value).Get("student_name"),
		Status:         Status(url.Values(form.Value).Get("status")),
		Subject:        url.Values(form.Value).Get("subject"),
		Description:    url.Values(form.Value).Get("description"),
		Resolution:     url.Values(form.Value).Get("resolution"),
		Classification: records.FieldsFromForm(form.Value),
		Attachments:    upload,
	}, nil
}

func (h *Handler) updateCommand(w http.ResponseWriter, r *http.Request) (UpdateCommand, error) {
	if attachments.IsJSON(r) {
		var req UpdateRequest
		if err := attachments.DecodeJSON(w, r, h.maxUploadSize, &req); err != nil {
			return UpdateCommand{}, err
		}
		return UpdateCommand{
			StudentName:    req.StudentName,
			Status:         req.Status,
			Subject:        req.Subject,
			Description:    req.Description,
			Resolution:     req.Resolution,
			Classification: req.Fields(),
		}, nil
	}

	form, err := attachments.ParseMultipart(w, r, h.maxUploadSize)
	if err != nil {
		return UpdateCommand{}, err
	}

	upload, err := attachments.ReadForm(form)
	if err != nil {
		return UpdateCommand{}, err
	}

	cmd := UpdateCommand{
		StudentName:    handlers.FormValue(form.Value, "student_name"),
		Subject:        handlers.FormValue(form.Value, "subject"),
		Description:    handlers.FormValue(form.Value, "description"),
		Resolution:     handlers.FormValue(form.Value, "resolution"),
		Classification: records.FieldsFromForm(form.Value),
		Attachments:    upload,
	}
	if s := handlers.FormValue(form.Value, "status"); s != nil {
		cmd.Status = new(Status(*s))
	}
	return cmd, nil
}

// Delete removes a complaint and its attachments.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
