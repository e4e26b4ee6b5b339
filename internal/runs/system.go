package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/leafscan/pkg/pagination"
)

// System defines the public contract for training run operations.
type System interface {
	Handler() *Handler

	Record(ctx context.Context, cmd RecordCommand) (*Run, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
}
