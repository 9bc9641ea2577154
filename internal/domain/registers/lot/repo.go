package lot

import (
	"context"
	"time"

	"kiosko/internal/core/id"
)

// Repository persists lots.
type Repository interface {
	Create(ctx context.Context, l Lot) error
	Update(ctx context.Context, l Lot) (Lot, error)
	GetByID(ctx context.Context, lotID id.ID) (Lot, error)

	// GetByNumber looks a lot up by its number within a product.
	GetByNumber(ctx context.Context, productID id.ID, number string) (Lot, error)

	// GetForUpdate loads and locks the lot until the unit of work ends.
	GetForUpdate(ctx context.Context, lotID id.ID) (Lot, error)

	// ListAvailable returns lots of productID with stock left, nearest expiry first.
	ListAvailable(ctx context.Context, productID id.ID) ([]Lot, error)

	// ListExpiringBetween returns lots with stock left and from <= expires_at < to,
	// nearest expiry first. A zero from means no lower bound.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]Lot, error)

	// Delete removes a lot that has not been consumed.
	Delete(ctx context.Context, lotID id.ID) error
}
