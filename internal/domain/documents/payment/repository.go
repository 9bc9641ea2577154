package payment

import (
	"context"
	"time"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Filter narrows payment lists. To is exclusive.
type Filter struct {
	SupplierID *id.ID
	PurchaseID *id.ID
	From       time.Time
	To         time.Time
	domain.Page
}

// Repository persists payments.
type Repository interface {
	Create(ctx context.Context, p Payment) error
	GetByID(ctx context.Context, paymentID id.ID) (Payment, error)

	// List returns payments newest first.
	List(ctx context.Context, f Filter) (domain.ListResult[Payment], error)
}
