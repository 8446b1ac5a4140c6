package request

import (
	"context"
	"time"
)

// ListFilter narrows the set of requests returned by List.
// Zero values mean "no constraint" for the corresponding field.
type ListFilter struct {
	UserID    uint
	Status    Status
	StartDate *time.Time
	EndDate   *time.Time
}

type Repository interface {
	// Create persists the request row and one allocation row per line,
	// assigning IDs on success. Must be called inside a transaction scope
	// when the request carries allocations.
	Create(ctx context.Context, req *Request) error

	// GetByID loads the request with its allocations, or ErrNotFound.
	GetByID(ctx context.Context, id uint) (*Request, error)

	// UpdateStatus sets the status column only.
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// MarkCancelled sets status=Cancelled and deletes the allocation rows.
	// The status write only applies when the row is still Pending; a request
	// concurrently moved to any other status yields ErrNotPending so the
	// surrounding transaction aborts without releasing anything.
	MarkCancelled(ctx context.Context, id uint) error

	// List returns requests matching the filter, newest first. A limit of
	// zero or less disables pagination.
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Request, int64, error)
}
