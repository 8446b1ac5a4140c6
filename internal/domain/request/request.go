// Package request provides the network request aggregate and its lifecycle
// rules: a request is created Pending with an all-or-nothing resource
// footprint, may be cancelled by its owner while Pending, and carries an
// open-ended status otherwise driven by administrators.
package request

import (
	"fmt"
	"time"
)

// Request represents the network access request aggregate root.
type Request struct {
	id             uint
	userID         uint
	locationID     uint
	connectionType string
	status         Status
	allocations    []*Allocation
	createdAt      time.Time
}

// NewRequest creates a new pending request for the given user and location.
func NewRequest(userID, locationID uint, connectionType string, allocations []*Allocation) (*Request, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if locationID == 0 {
		return nil, fmt.Errorf("location ID is required")
	}
	if connectionType == "" {
		return nil, fmt.Errorf("connection type is required")
	}

	return &Request{
		userID:         userID,
		locationID:     locationID,
		connectionType: connectionType,
		status:         StatusPending,
		allocations:    allocations,
		createdAt:      time.Now(),
	}, nil
}

// ReconstructRequest restores a request from persistence.
func ReconstructRequest(
	id uint,
	userID uint,
	locationID uint,
	connectionType string,
	status Status,
	allocations []*Allocation,
	createdAt time.Time,
) (*Request, error) {
	if id == 0 {
		return nil, fmt.Errorf("request ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid request status")
	}

	return &Request{
		id:             id,
		userID:         userID,
		locationID:     locationID,
		connectionType: connectionType,
		status:         status,
		allocations:    allocations,
		createdAt:      createdAt,
	}, nil
}

func (r *Request) ID() uint {
	return r.id
}

func (r *Request) UserID() uint {
	return r.userID
}

func (r *Request) LocationID() uint {
	return r.locationID
}

func (r *Request) ConnectionType() string {
	return r.connectionType
}

func (r *Request) Status() Status {
	return r.status
}

func (r *Request) Allocations() []*Allocation {
	return r.allocations
}

func (r *Request) CreatedAt() time.Time {
	return r.createdAt
}

// IsOwnedBy reports whether the request belongs to the given user.
func (r *Request) IsOwnedBy(userID uint) bool {
	return r.userID == userID
}

func (r *Request) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("request ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("request ID cannot be zero")
	}
	r.id = id
	return nil
}

// Cancel transitions the request to Cancelled. Only Pending requests may be
// cancelled; the caller is responsible for releasing the allocations in the
// same atomic scope.
func (r *Request) Cancel() error {
	if r.status.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if !r.status.IsPending() {
		return ErrNotPending
	}
	r.status = StatusCancelled
	r.allocations = nil
	return nil
}

// SetStatus applies an administrative status update. Any non-empty status is
// accepted; the update never touches allocations or the inventory ledger.
func (r *Request) SetStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("status is required")
	}
	r.status = status
	return nil
}
