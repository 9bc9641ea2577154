package dto

import (
	"time"

	"kiosko/internal/core/types"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
)

// --- Sales ---

// CreateSaleRequest registers a sale of one or more lines.
type CreateSaleRequest struct {
	Lines         []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
	PaymentMethod string            `json:"paymentMethod" binding:"max=50"`
	Note          string            `json:"note"`
}

// SaleLineRequest is one requested line. LotID is required for batch-tracked products.
type SaleLineRequest struct {
	ProductID string  `json:"productId" binding:"required,uuid"`
	LotID     *string `json:"lotId" binding:"omitempty,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
}

// ToInput converts request to the sale engine input.
func (r *CreateSaleRequest) ToInput() sale.RegisterInput {
	in := sale.RegisterInput{
		Lines:         make([]sale.LineInput, 0, len(r.Lines)),
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
	}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, sale.LineInput{
			ProductID: parseID(l.ProductID),
			LotID:     parseOptionalID(l.LotID),
			Quantity:  l.Quantity,
		})
	}
	return in
}

// --- Purchases ---

// CreatePurchaseRequest registers goods received from a supplier.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplierId" binding:"required,uuid"`
	Lines         []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
	InvoiceNumber *string               `json:"invoiceNumber" binding:"omitempty,max=100"`
	PaymentTerms  string                `json:"paymentTerms"`
	DueDate       *time.Time            `json:"dueDate"`
	PurchasedAt   *time.Time            `json:"purchasedAt"`
	ExpiresAt     *time.Time            `json:"expiresAt"`
	Note          string                `json:"note"`
}

// PurchaseLineRequest is one product received.
type PurchaseLineRequest struct {
	ProductID string      `json:"productId" binding:"required,uuid"`
	Quantity  int64       `json:"quantity" binding:"required,gt=0"`
	UnitCost  types.Money `json:"unitCost"`
	ExpiresAt *time.Time  `json:"expiresAt"`
}

// ToInput converts request to the purchase engine input.
func (r *CreatePurchaseRequest) ToInput() (purchase.RegisterInput, error) {
	terms, err := purchase.ParsePaymentTerms(r.PaymentTerms)
	if err != nil {
		return purchase.RegisterInput{}, err
	}
	in := purchase.RegisterInput{
		SupplierID:    parseID(r.SupplierID),
		Lines:         make([]purchase.LineInput, 0, len(r.Lines)),
		InvoiceNumber: r.InvoiceNumber,
		PaymentTerms:  terms,
		DueDate:       r.DueDate,
		PurchasedAt:   r.PurchasedAt,
		ExpiresAt:     r.ExpiresAt,
		Note:          r.Note,
	}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, purchase.LineInput{
			ProductID: parseID(l.ProductID),
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			ExpiresAt: l.ExpiresAt,
		})
	}
	return in, nil
}

// PurchaseListQuery filters the purchase list.
type PurchaseListQuery struct {
	ListQuery
	RangeQuery
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	Unpaid     bool   `form:"unpaid"`
}

// PurchaseResponse is a purchase with its outstanding balance.
type PurchaseResponse struct {
	purchase.Purchase
	Outstanding types.Money `json:"outstanding"`
}

// FromPurchase creates PurchaseResponse from a domain purchase.
func FromPurchase(p purchase.Purchase) PurchaseResponse {
	return PurchaseResponse{Purchase: p, Outstanding: p.OutstandingBalance()}
}

// --- Payments ---

// CreatePaymentRequest pays a supplier, optionally against one purchase.
type CreatePaymentRequest struct {
	SupplierID string      `json:"supplierId" binding:"required,uuid"`
	Amount     types.Money `json:"amount"`
	PurchaseID *string     `json:"purchaseId" binding:"omitempty,uuid"`
	Method     string      `json:"method" binding:"max=50"`
	Note       string      `json:"note"`
	PaidAt     *time.Time  `json:"paidAt"`
}

// ToInput converts request to the payment engine input.
func (r *CreatePaymentRequest) ToInput() payment.ApplyInput {
	return payment.ApplyInput{
		SupplierID: parseID(r.SupplierID),
		Amount:     r.Amount,
		PurchaseID: parseOptionalID(r.PurchaseID),
		Method:     r.Method,
		Note:       r.Note,
		PaidAt:     r.PaidAt,
	}
}

// PaymentListQuery filters the payment list.
type PaymentListQuery struct {
	ListQuery
	RangeQuery
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	PurchaseID string `form:"purchaseId" binding:"omitempty,uuid"`
}
