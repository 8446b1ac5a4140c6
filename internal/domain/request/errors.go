package request

import "errors"

var (
	// ErrNotFound indicates the request was not found
	ErrNotFound = errors.New("request not found")

	// ErrNotPending indicates a lifecycle transition that requires a pending request
	ErrNotPending = errors.New("request is not pending")

	// ErrAlreadyCancelled indicates the request has already been cancelled
	ErrAlreadyCancelled = errors.New("request is already cancelled")
)
