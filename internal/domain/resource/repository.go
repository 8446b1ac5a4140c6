package resource

import "context"

// ListFilter narrows the resources returned by List.
type ListFilter struct {
	Name          string // substring match on resource name
	AvailableOnly bool   // only resources with quantity_available > 0
}

// Ledger is the inventory contract owning the quantity invariant. Both
// operations are single atomic statements: concurrent reserve/release calls
// on the same resource are serialized by the storage row lock, so no
// interleaving can overdraw the pool or lose an update.
type Ledger interface {
	// Reserve decrements quantity_available by qty if and only if at least
	// qty units are available. Returns ErrInsufficientQuantity when the
	// guard fails and ErrNotFound when the resource does not exist. There is
	// no partial reservation.
	Reserve(ctx context.Context, resourceID uint, qty int) error

	// Release increments quantity_available by qty, clamped at
	// quantity_total to protect against double release.
	Release(ctx context.Context, resourceID uint, qty int) error
}

type Repository interface {
	Ledger

	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id uint) (*Resource, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*Resource, error)
}
