// Package lot provides the lot ledger: expiration batches of batch-tracked products.
package lot

import (
	"math"
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/entity"
	"kiosko/internal/core/id"
	"kiosko/internal/domain/catalogs/product"
)

// Lot is a quantity of one product sharing a single expiration date.
// Quantity never changes after opening; only Consumed grows.
type Lot struct {
	entity.Base

	Number     string    `db:"number" json:"number"`
	ProductID  id.ID     `db:"product_id" json:"productId"`
	PurchaseID *id.ID    `db:"purchase_id" json:"purchaseId,omitempty"`
	ExpiresAt  time.Time `db:"expires_at" json:"expiresAt"`
	Quantity   int64     `db:"quantity" json:"quantity"`
	Consumed   int64     `db:"consumed" json:"consumed"`
}

// OpenParams describes a lot received with a purchase line.
type OpenParams struct {
	Number     string
	Quantity   int64
	ExpiresAt  time.Time
	PurchaseID *id.ID
}

// Open creates a lot with nothing consumed for a batch-tracked product.
func Open(lotID id.ID, prod product.Product, p OpenParams, now time.Time) (Lot, error) {
	if !prod.TrackBatches {
		return Lot{}, apperror.NewBusinessRule("batch_tracking_disabled",
			"product "+prod.Name+" does not track lots").
			WithDetail("product_id", prod.ID.String())
	}
	if p.Quantity <= 0 {
		return Lot{}, apperror.NewValidation("lot quantity must be greater than zero").
			WithDetail("field", "quantity")
	}
	if strings.TrimSpace(p.Number) == "" {
		return Lot{}, apperror.NewValidation("lot number is required").WithDetail("field", "number")
	}
	if p.ExpiresAt.IsZero() {
		return Lot{}, apperror.NewValidation("lot expiration date is required").WithDetail("field", "expiresAt")
	}
	return Lot{
		Base:       entity.NewBase(lotID, now),
		Number:     strings.TrimSpace(p.Number),
		ProductID:  prod.ID,
		PurchaseID: p.PurchaseID,
		ExpiresAt:  p.ExpiresAt,
		Quantity:   p.Quantity,
	}, nil
}

// Available is quantity not yet consumed.
func (l Lot) Available() int64 {
	return l.Quantity - l.Consumed
}

// Consume returns the lot with quantity more units consumed.
func (l Lot) Consume(quantity int64, now time.Time) (Lot, error) {
	if quantity <= 0 {
		return l, apperror.NewValidation("quantity must be greater than zero").WithDetail("field", "quantity")
	}
	if quantity > l.Available() {
		return l, apperror.NewInsufficientStock(l.ProductID.String(), quantity, l.Available()).
			WithDetail("lot_id", l.ID.String()).
			WithDetail("lot_number", l.Number)
	}
	l.Consumed += quantity
	l.Base = l.Base.Touched(now)
	return l, nil
}

// IsExpired reports expiration strictly before now.
func (l Lot) IsExpired(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}

// IsExpiringWithin reports now <= expiration <= now+days.
func (l Lot) IsExpiringWithin(now time.Time, days int) bool {
	if l.IsExpired(now) {
		return false
	}
	return !l.ExpiresAt.After(now.AddDate(0, 0, days))
}

// DaysUntilExpiry counts calendar days from now's day to the expiration day.
// Negative for expired lots.
func (l Lot) DaysUntilExpiry(now time.Time) int {
	from := clock.StartOfDay(now)
	to := clock.StartOfDay(l.ExpiresAt.In(now.Location()))
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
