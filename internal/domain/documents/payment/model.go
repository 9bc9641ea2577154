// Package payment provides supplier payments and the allocator that applies them to purchases.
package payment

import (
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

// DefaultMethod is used when a payment carries none.
const DefaultMethod = "cash"

// Payment is money paid to a supplier, optionally against one purchase. Immutable.
type Payment struct {
	ID         id.ID       `db:"id" json:"id"`
	SupplierID id.ID       `db:"supplier_id" json:"supplierId"`
	PurchaseID *id.ID      `db:"purchase_id" json:"purchaseId,omitempty"`
	PaidAt     time.Time   `db:"paid_at" json:"paidAt"`
	Amount     types.Money `db:"amount" json:"amount"`
	Method     string      `db:"method" json:"method"`
	Note       string      `db:"note" json:"note,omitempty"`
	UserID     string      `db:"user_id" json:"userId,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
}

// Params describes a new payment.
type Params struct {
	SupplierID id.ID
	PurchaseID *id.ID
	PaidAt     time.Time
	Amount     types.Money
	Method     string
	Note       string
	UserID     string
}

// New validates and builds a payment.
func New(paymentID id.ID, p Params, now time.Time) (Payment, error) {
	amount := types.RoundMoney(p.Amount)
	if !amount.IsPositive() {
		return Payment{}, apperror.NewValidation("payment amount must be greater than zero").WithDetail("field", "amount")
	}
	if id.IsNil(p.SupplierID) {
		return Payment{}, apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
	}
	method := strings.TrimSpace(p.Method)
	if method == "" {
		method = DefaultMethod
	}
	paidAt := p.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	return Payment{
		ID:         paymentID,
		SupplierID: p.SupplierID,
		PurchaseID: p.PurchaseID,
		PaidAt:     paidAt,
		Amount:     amount,
		Method:     method,
		Note:       p.Note,
		UserID:     p.UserID,
		CreatedAt:  now,
	}, nil
}

// IsAssigned reports whether the payment settles a specific purchase.
func (p Payment) IsAssigned() bool {
	return p.PurchaseID != nil
}
