package complaints

import (
	"context"

	"github.com/JaimeStill/bulletin/pkg/pagination"
)

// System defines the public contract for complaint domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Complaint], error)

	Find(ctx context.Context, id string) (*Complaint, error)
	Create(ctx context.Context, cmd CreateCommand) (*Complaint, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*Complaint, error)
	Delete(ctx context.Context, id string) error
}
