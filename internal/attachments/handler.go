package attachments

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/pkg/handlers"
	"github.com/JaimeStill/bulletin/pkg/routes"
	"github.com/JaimeStill/bulletin/pkg/storage"
)

// Handler serves attachment downloads.
type Handler struct {
	storage storage.System
	logger  *slog.Logger
}

// NewHandler creates a download Handler.
func NewHandler(store storage.System, logger *slog.Logger) *Handler {
	return &Handler{
		storage: store,
		logger:  logger.With("handler", "attachments"),
	}
}

// Routes returns the route group for attachment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/attachments",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.Download},
		},
	}
}

// Download streams the blob at the key path parameter. Only keys under a
// record kind prefix are served.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !recordKey(key) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownBlobKey)
		return
	}

	obj, err := h.storage.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("attachment stream interrupted", "key", key, "error", err)
	}
}

func recordKey(key string) bool {
	for _, kind := range sequence.Kinds() {
		if strings.HasPrefix(key, string(kind)+"s/") {
			return true
		}
	}
	return false
}
