package students

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/bulletin/pkg/handlers"
	"github.com/JaimeStill/bulletin/pkg/routes"
)

// Handler provides HTTP endpoints for student authentication.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler for the given system.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "students"),
	}
}

// Routes returns the route group definition for student endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/students",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/login", Handler: h.Login},
		},
	}
}

// Login verifies a register number and password and returns the student profile.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	profile, err := h.sys.Login(r.Context(), req.RegisterNo, req.Password)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, profile)
}
