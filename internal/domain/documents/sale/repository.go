package sale

import (
	"context"
	"time"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Filter narrows sale lists. Zero From/To leave the range open; To is exclusive.
type Filter struct {
	From time.Time
	To   time.Time
	domain.Page
}

// Repository persists sales with their lines.
type Repository interface {
	// Create stores the header and all lines.
	Create(ctx context.Context, s Sale) error

	GetByID(ctx context.Context, saleID id.ID) (Sale, error)
	GetByNumber(ctx context.Context, number string) (Sale, error)

	// List returns sales with lines, newest first.
	List(ctx context.Context, f Filter) (domain.ListResult[Sale], error)
}
