package purchase

import (
	"context"
	"time"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Filter narrows purchase lists. To is exclusive.
type Filter struct {
	SupplierID *id.ID
	UnpaidOnly bool
	From       time.Time
	To         time.Time
	domain.Page
}

// Repository persists purchases with their lines.
type Repository interface {
	Create(ctx context.Context, p Purchase) error

	// Update writes the payment state guarded by p.Version. Lines are immutable.
	Update(ctx context.Context, p Purchase) (Purchase, error)

	GetByID(ctx context.Context, purchaseID id.ID) (Purchase, error)

	// GetForUpdate loads and locks the purchase header; Lines stay empty.
	GetForUpdate(ctx context.Context, purchaseID id.ID) (Purchase, error)

	// List returns purchases with lines, newest first.
	List(ctx context.Context, f Filter) (domain.ListResult[Purchase], error)

	// ListUnpaid returns unpaid purchase headers, of one supplier when supplierID is set.
	ListUnpaid(ctx context.Context, supplierID *id.ID) ([]Purchase, error)
}
