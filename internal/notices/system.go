package notices

import (
	"context"

	"github.com/JaimeStill/bulletin/pkg/pagination"
)

// System defines the public contract for notice domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Notice], error)

	Find(ctx context.Context, id string) (*Notice, error)
	Create(ctx context.Context, cmd CreateCommand) (*Notice, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Notice, error)
	Delete(ctx context.Context, id string) error
}
