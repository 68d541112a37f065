package attachments

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/bulletin/internal/sequence"
	"github.com/JaimeStill/bulletin/pkg/storage"
)

// Store writes and removes attachment blobs for records.
type Store struct {
	storage storage.System
	logger  *slog.Logger
}

// NewStore creates a Store over the given blob storage.
func NewStore(store storage.System, logger *slog.Logger) *Store {
	return &Store{
		storage: store,
		logger:  logger.With("system", "attachments"),
	}
}

// Put uploads the files in u under the record's key prefix. The image and
// PDF upload concurrently; if either fails, the other is deleted and
// ErrUploadFailed is returned.
func (s *Store) Put(ctx context.Context, kind sequence.Kind, id string, u Upload) (Stored, error) {
	var stored Stored
	if u.Empty() {
		return stored, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	if u.Image != nil {
		key := Key(kind, id, u.Image.Filename)
		g.Go(func() error {
			if err := s.storage.Upload(gctx, key, bytes.NewReader(u.Image.Data), u.Image.ContentType); err != nil {
				return fmt.Errorf("image: %w", err)
			}
			stored.ImageKey = &key
			return nil
		})
	}

	if u.PDF != nil {
		key := Key(kind, id, u.PDF.Filename)
		pages := u.PDF.Pages
		g.Go(func() error {
			if err := s.storage.Upload(gctx, key, bytes.NewReader(u.PDF.Data), u.PDF.ContentType); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
			stored.PDFKey = &key
			stored.PDFPages = &pages
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.Remove(context.WithoutCancel(ctx), stored.Keys()...)
		return Stored{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	s.logger.Info("attachments stored", "kind", kind, "id", id, "keys", stored.Keys())
	return stored, nil
}

// Remove deletes blobs best-effort. Failures are logged, not returned, since
// the record change they follow has already been committed.
func (s *Store) Remove(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("attachment delete failed", "key", key, "error", err)
		}
	}
}

// Key builds the blob key <kind>s/<id>/<uuid>-<filename>.
func Key(kind sequence.Kind, id, filename string) string {
	return fmt.Sprintf("%ss/%s/%s-%s", kind, id, uuid.New(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := b.String()
	for strings.Contains(clean, "..") {
		clean = strings.ReplaceAll(clean, "..", ".")
	}
	clean = strings.Trim(clean, ".")

	if clean == "" {
		return "file"
	}
	return clean
}
