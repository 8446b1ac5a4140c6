package resource

import "errors"

var (
	// ErrNotFound indicates the resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientQuantity indicates the ledger cannot satisfy a reservation
	ErrInsufficientQuantity = errors.New("insufficient resource quantity available")
)
