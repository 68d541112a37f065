package taxonomy

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/bulletin/pkg/handlers"
	"github.com/JaimeStill/bulletin/pkg/routes"
)

// ErrUnknownTaxonomy indicates no taxonomy is registered for the requested kind.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy")

// Listing is the JSON view of a Set.
type Listing struct {
	Kind        string  `json:"kind"`
	Categories  []Entry `json:"categories"`
	Departments []Entry `json:"departments"`
	OtherCode   string  `json:"other_code"`
}

// Handler serves the taxonomy tables so clients can build pick lists.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a taxonomy Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With("handler", "taxonomy")}
}

// Routes returns the route group for taxonomy endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/taxonomy",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{kind}", Handler: h.Find},
		},
	}
}

// Find returns the category and department tables for the kind path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	set, ok := Lookup(kind)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownTaxonomy)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Listing{
		Kind:        kind,
		Categories:  set.Categories.Entries(),
		Departments: set.Departments.Entries(),
		OtherCode:   OtherCode,
	})
}
