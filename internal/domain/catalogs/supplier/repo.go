package supplier

import (
	"context"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Filter narrows supplier lists.
type Filter struct {
	Active *bool
	Search string
	domain.Page
}

// Repository persists suppliers.
type Repository interface {
	Create(ctx context.Context, s Supplier) error
	Update(ctx context.Context, s Supplier) (Supplier, error)
	GetByID(ctx context.Context, supplierID id.ID) (Supplier, error)
	List(ctx context.Context, f Filter) (domain.ListResult[Supplier], error)
}
