// Package purchase provides the Purchase document and the engine that registers it.
package purchase

import (
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/entity"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

// PaymentTerms of a purchase. Only cash purchases are paid on registration.
type PaymentTerms string

const (
	TermsCash     PaymentTerms = "cash"
	TermsCredit   PaymentTerms = "credit"
	TermsTransfer PaymentTerms = "transfer"
)

// ParsePaymentTerms validates s, defaulting to cash.
func ParsePaymentTerms(s string) (PaymentTerms, error) {
	switch t := PaymentTerms(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TermsCash, nil
	case TermsCash, TermsCredit, TermsTransfer:
		return t, nil
	default:
		return "", apperror.NewValidation("unknown payment terms").
			WithDetail("field", "paymentTerms").
			WithDetail("value", s)
	}
}

// Purchase is a receipt of goods from a supplier. Only AmountPaid and Paid change after
// registration, through ApplyPayment.
type Purchase struct {
	entity.Base

	Number        string       `db:"number" json:"number"`
	InvoiceNumber *string      `db:"invoice_number" json:"invoiceNumber,omitempty"`
	PurchasedAt   time.Time    `db:"purchased_at" json:"purchasedAt"`
	Total         types.Money  `db:"total" json:"total"`
	PaymentTerms  PaymentTerms `db:"payment_terms" json:"paymentTerms"`
	DueDate       *time.Time   `db:"due_date" json:"dueDate,omitempty"`
	Paid          bool         `db:"paid" json:"paid"`
	AmountPaid    types.Money  `db:"amount_paid" json:"amountPaid"`
	SupplierID    id.ID        `db:"supplier_id" json:"supplierId"`
	Note          string       `db:"note" json:"note,omitempty"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one product received.
type Line struct {
	ID         id.ID       `db:"id" json:"id"`
	PurchaseID id.ID       `db:"purchase_id" json:"purchaseId"`
	LineNo     int         `db:"line_no" json:"lineNo"`
	ProductID  id.ID       `db:"product_id" json:"productId"`
	Quantity   int64       `db:"quantity" json:"quantity"`
	UnitCost   types.Money `db:"unit_cost" json:"unitCost"`
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	LotID      *id.ID      `db:"lot_id" json:"lotId,omitempty"`
}

// Header holds the document fields of a new purchase.
type Header struct {
	Number        string
	InvoiceNumber *string
	PurchasedAt   time.Time
	PaymentTerms  PaymentTerms
	DueDate       *time.Time
	SupplierID    id.ID
	Note          string
}

// New assembles a purchase and computes its total. Cash purchases are paid in full.
func New(purchaseID id.ID, h Header, lines []Line, now time.Time) (Purchase, error) {
	if len(lines) == 0 {
		return Purchase{}, apperror.NewValidation("purchase must have at least one line").WithDetail("field", "lines")
	}
	if h.PurchasedAt.IsZero() {
		h.PurchasedAt = now
	}
	if h.PaymentTerms == "" {
		h.PaymentTerms = TermsCash
	}

	p := Purchase{
		Base:          entity.NewBase(purchaseID, now),
		Number:        h.Number,
		InvoiceNumber: h.InvoiceNumber,
		PurchasedAt:   h.PurchasedAt,
		PaymentTerms:  h.PaymentTerms,
		DueDate:       h.DueDate,
		SupplierID:    h.SupplierID,
		Note:          h.Note,
		Lines:         make([]Line, len(lines)),
	}
	if p.PaymentTerms == TermsCash {
		p.DueDate = nil
	}

	subtotals := make([]types.Money, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return Purchase{}, apperror.NewValidation("quantity must be greater than zero").WithDetail("line", i+1)
		}
		if l.UnitCost.IsNegative() {
			return Purchase{}, apperror.NewValidation("unit cost cannot be negative").WithDetail("line", i+1)
		}
		l.PurchaseID = purchaseID
		l.LineNo = i + 1
		l.UnitCost = types.RoundMoney(l.UnitCost)
		l.Subtotal = types.LineAmount(l.UnitCost, l.Quantity)
		p.Lines[i] = l
		subtotals[i] = l.Subtotal
	}
	p.Total = types.Sum(subtotals...)
	if !p.Total.IsPositive() {
		return Purchase{}, apperror.NewValidation("purchase total must be greater than zero").WithDetail("field", "total")
	}

	p.Paid = p.PaymentTerms == TermsCash
	p.AmountPaid = types.Zero()
	if p.Paid {
		p.AmountPaid = p.Total
	}
	return p, nil
}

// OutstandingBalance is what is still owed on the purchase.
func (p Purchase) OutstandingBalance() types.Money {
	if p.Paid {
		return types.Zero()
	}
	return p.Total.Sub(p.AmountPaid)
}

// IsOverdue reports an unpaid purchase whose due date is before now.
// A purchase without due date is never overdue.
func (p Purchase) IsOverdue(now time.Time) bool {
	return !p.Paid && p.DueDate != nil && p.DueDate.Before(now)
}

// ApplyPayment returns the purchase with amount added to AmountPaid.
// Paying more than the outstanding balance is rejected.
func (p Purchase) ApplyPayment(amount types.Money, now time.Time) (Purchase, error) {
	amount = types.RoundMoney(amount)
	if !amount.IsPositive() {
		return p, apperror.NewValidation("payment amount must be greater than zero").WithDetail("field", "amount")
	}
	if p.Paid {
		return p, apperror.NewBusinessRule("purchase_already_paid", "purchase "+p.Number+" is already paid").
			WithDetail("purchase_id", p.ID.String())
	}
	outstanding := p.OutstandingBalance()
	if amount.GreaterThan(outstanding) {
		return p, apperror.NewBusinessRule("overpayment", "payment exceeds the outstanding balance").
			WithDetail("purchase_id", p.ID.String()).
			WithDetail("outstanding", outstanding.StringFixed(types.MoneyScale)).
			WithDetail("amount", amount.StringFixed(types.MoneyScale))
	}
	p.AmountPaid = p.AmountPaid.Add(amount)
	p.Paid = !p.AmountPaid.LessThan(p.Total)
	p.Base = p.Base.Touched(now)
	return p, nil
}
