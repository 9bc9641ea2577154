// Package tx defines the unit-of-work contract shared by the domain services and
// the storage backends.
package tx

import (
	"context"
)

// Manager runs fn as one unit of work: every write made through ctx inside fn
// commits together or not at all. Nested calls join the outer unit.
//
// The postgres backend maps a unit to a database transaction; the memory
// backend to a store-wide lock with snapshot rollback.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager can also run fn against a consistent read-only view.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn without write access.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
