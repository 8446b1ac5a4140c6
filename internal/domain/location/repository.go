package location

import (
	"context"
	"errors"
)

// ErrNotFound indicates the location was not found
var ErrNotFound = errors.New("location not found")

type Repository interface {
	Create(ctx context.Context, loc *Location) error
	GetByID(ctx context.Context, id uint) (*Location, error)
	Update(ctx context.Context, loc *Location) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, available *bool) ([]*Location, error)
}
