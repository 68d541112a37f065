// Package sequence issues human-readable record identifiers (NTC003, CMP012)
// from one persistent counter per entity kind.
//
// The counter increment is delegated entirely to a Store, which must apply
// the increment and read back the new value as a single atomic operation.
// The Allocator holds no in-process lock.
package sequence

import (
	"context"
	"fmt"
	"log/slog"
)

// Kind identifies a counter stream.
type Kind string

const (
	Notice    Kind = "notice"
	Complaint Kind = "complaint"
)

var prefixes = map[Kind]string{
	Notice:    "NTC",
	Complaint: "CMP",
}

// Kinds returns all known kinds.
func Kinds() []Kind {
	return []Kind{Notice, Complaint}
}

// Prefix returns the identifier prefix for the kind.
func (k Kind) Prefix() (string, bool) {
	p, ok := prefixes[k]
	return p, ok
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := prefixes[k]
	return ok
}

// Store performs the atomic increment-and-read of a counter.
// Increment must either durably apply exactly one increment and return the
// resulting value, or apply nothing and return an error.
type Store interface {
	Increment(ctx context.Context, kind Kind) (int64, error)
}

// Allocator hands out identifiers backed by a Store.
type Allocator struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

// NewAllocator creates an Allocator. metrics may be nil.
func NewAllocator(store Store, logger *slog.Logger, metrics *Metrics) *Allocator {
	return &Allocator{
		store:   store,
		logger:  logger.With("system", "sequence"),
		metrics: metrics,
	}
}

// Allocate increments the counter for kind and returns the formatted identifier.
// Unknown kinds fail with ErrUnknownKind before storage is touched. Any store
// failure yields ErrStorageUnavailable and no identifier; the call is not retried.
func (a *Allocator) Allocate(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		a.logger.Error("allocate called with unknown kind", "kind", kind)
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	value, err := a.store.Increment(ctx, kind)
	if err != nil {
		a.metrics.observe(kind, statusFailed)
		a.logger.Warn("sequence increment failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, kind, err)
	}

	if value < 1 {
		a.metrics.observe(kind, statusFailed)
		return "", fmt.Errorf("%w: %s: counter returned %d", ErrStorageUnavailable, kind, value)
	}

	id, err := Format(kind, value)
	if err != nil {
		return "", err
	}

	a.metrics.observe(kind, statusAllocated)
	a.logger.Debug("identifier allocated", "kind", kind, "id", id)
	return id, nil
}

// Format renders value as <PREFIX><value zero-padded to at least 3 digits>.
func Format(kind Kind, value int64) (string, error) {
	prefix, ok := kind.Prefix()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return fmt.Sprintf("%s%03d", prefix, value), nil
}
