package product

import (
	"context"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Filter narrows product lists.
type Filter struct {
	Active     *bool
	Category   string
	SupplierID *id.ID
	// Search matches code or name, case-insensitive.
	Search string
	domain.Page
}

// Repository persists products.
type Repository interface {
	Create(ctx context.Context, p Product) error

	// Update writes p guarded by p.Version and returns the stored value.
	// A stale version fails with ConcurrentModification.
	Update(ctx context.Context, p Product) (Product, error)

	GetByID(ctx context.Context, productID id.ID) (Product, error)
	GetByCode(ctx context.Context, code string) (Product, error)

	// GetForUpdate loads the product and locks it until the unit of work ends.
	GetForUpdate(ctx context.Context, productID id.ID) (Product, error)

	List(ctx context.Context, f Filter) (domain.ListResult[Product], error)

	// ListLowStock returns active products with stock <= reorder threshold, lowest stock first.
	ListLowStock(ctx context.Context) ([]Product, error)
}
