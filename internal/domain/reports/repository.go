package reports

import (
	"context"
	"time"

	"kiosko/internal/core/types"
)

// Repository aggregates committed sales and payments. Ranges are half-open.
type Repository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (SalesTotals, error)
	PaymentsTotal(ctx context.Context, from, to time.Time) (types.Money, error)

	// SalesByDay groups sales by calendar day of sold_at in loc, oldest first.
	SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) ([]DailySales, error)

	// TopProducts ranks products by quantity sold, then by total.
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
}
