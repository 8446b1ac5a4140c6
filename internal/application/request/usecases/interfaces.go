package usecases

import "context"

// TransactionManager is the atomic scope every resource-bearing request
// operation runs in. An error returned from fn aborts the scope: no partial
// ledger mutation, request row, allocation, or notification survives.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
