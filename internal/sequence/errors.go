package sequence

import "errors"

var (
	// ErrUnknownKind indicates a caller passed a kind outside the known set.
	ErrUnknownKind = errors.New("unknown sequence kind")
	// ErrStorageUnavailable indicates the counter increment was not applied.
	ErrStorageUnavailable = errors.New("sequence storage unavailable")
)
