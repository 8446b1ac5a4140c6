package request

import "fmt"

// Allocation is an exclusive claim of quantityUsed units of a resource held
// by one request. It exists only while the request holds the reservation and
// is deleted when the reservation is released on cancellation.
type Allocation struct {
	id           uint
	requestID    uint
	resourceID   uint
	resourceName string
	quantityUsed int
}

// NewAllocation creates an allocation claim for a request line.
func NewAllocation(resourceID uint, quantityUsed int) (*Allocation, error) {
	if resourceID == 0 {
		return nil, fmt.Errorf("resource ID is required")
	}
	if quantityUsed < 1 {
		return nil, fmt.Errorf("quantity used must be at least 1")
	}
	return &Allocation{
		resourceID:   resourceID,
		quantityUsed: quantityUsed,
	}, nil
}

// ReconstructAllocation restores an allocation from persistence.
func ReconstructAllocation(id, requestID, resourceID uint, resourceName string, quantityUsed int) *Allocation {
	return &Allocation{
		id:           id,
		requestID:    requestID,
		resourceID:   resourceID,
		resourceName: resourceName,
		quantityUsed: quantityUsed,
	}
}

func (a *Allocation) ID() uint {
	return a.id
}

func (a *Allocation) RequestID() uint {
	return a.requestID
}

func (a *Allocation) ResourceID() uint {
	return a.resourceID
}

func (a *Allocation) ResourceName() string {
	return a.resourceName
}

func (a *Allocation) QuantityUsed() int {
	return a.quantityUsed
}
