package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the user was not found
	ErrNotFound = errors.New("user not found")

	// ErrEmailExists indicates a user with the email already exists
	ErrEmailExists = errors.New("email is already in use")
)

// ListFilter narrows the users returned by List.
type ListFilter struct {
	Name string // substring match on full name
	Role string
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*User, error)
}
