// Package resource provides the shared equipment resource entity and the
// inventory ledger contract that owns its quantity invariant.
package resource

import (
	"fmt"
)

// Resource is a finite pool of identical equipment units. The ledger
// invariant 0 <= quantityAvailable <= quantityTotal holds after every
// committed mutation.
type Resource struct {
	id                uint
	name              string
	quantityTotal     int
	quantityAvailable int
}

// NewResource creates a resource pool. When quantityAvailable is negative it
// defaults to quantityTotal (a freshly created pool is fully available).
func NewResource(name string, quantityTotal, quantityAvailable int) (*Resource, error) {
	if name == "" {
		return nil, fmt.Errorf("resource name is required")
	}
	if quantityTotal < 0 {
		return nil, fmt.Errorf("total quantity cannot be negative")
	}
	if quantityAvailable < 0 {
		quantityAvailable = quantityTotal
	}
	if quantityAvailable > quantityTotal {
		return nil, fmt.Errorf("available quantity cannot exceed total quantity")
	}

	return &Resource{
		name:              name,
		quantityTotal:     quantityTotal,
		quantityAvailable: quantityAvailable,
	}, nil
}

// ReconstructResource restores a resource from persistence.
func ReconstructResource(id uint, name string, quantityTotal, quantityAvailable int) (*Resource, error) {
	if id == 0 {
		return nil, fmt.Errorf("resource ID cannot be zero")
	}
	return &Resource{
		id:                id,
		name:              name,
		quantityTotal:     quantityTotal,
		quantityAvailable: quantityAvailable,
	}, nil
}

func (r *Resource) ID() uint {
	return r.id
}

func (r *Resource) Name() string {
	return r.name
}

func (r *Resource) QuantityTotal() int {
	return r.quantityTotal
}

func (r *Resource) QuantityAvailable() int {
	return r.quantityAvailable
}

func (r *Resource) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("resource ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("resource ID cannot be zero")
	}
	r.id = id
	return nil
}

// Rename changes the resource name.
func (r *Resource) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("resource name is required")
	}
	r.name = name
	return nil
}

// AdjustTotal changes the pool size, shifting the available quantity by the
// same delta so outstanding reservations are preserved. Available is clamped
// to [0, total] afterwards.
func (r *Resource) AdjustTotal(newTotal int) error {
	if newTotal < 0 {
		return fmt.Errorf("total quantity cannot be negative")
	}
	diff := newTotal - r.quantityTotal
	r.quantityTotal = newTotal
	r.quantityAvailable += diff
	r.clampAvailable()
	return nil
}

// SetAvailable overrides the available quantity, clamped so it never exceeds
// the (possibly just-changed) total.
func (r *Resource) SetAvailable(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("available quantity cannot be negative")
	}
	r.quantityAvailable = quantity
	r.clampAvailable()
	return nil
}

func (r *Resource) clampAvailable() {
	if r.quantityAvailable > r.quantityTotal {
		r.quantityAvailable = r.quantityTotal
	}
	if r.quantityAvailable < 0 {
		r.quantityAvailable = 0
	}
}
