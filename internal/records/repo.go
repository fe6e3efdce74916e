package records

import (
	"context"

	"cruzados-backend/internal/commission"
)

// Repo defines persistence operations for commission records. Every read is
// normalized before it is returned.
type Repo interface {
	List(ctx context.Context, c commission.Commission) ([]Record, error)
	Get(ctx context.Context, c commission.Commission, id string) (Record, bool, error)
	Insert(ctx context.Context, c commission.Commission, d Draft) (Record, error)
	Update(ctx context.Context, c commission.Commission, id string, p Patch) (Record, error)
	Delete(ctx context.Context, c commission.Commission, id string) error
}

// Getter is the read-by-id slice of Repo.
type Getter interface {
	Get(ctx context.Context, c commission.Commission, id string) (Record, bool, error)
}
