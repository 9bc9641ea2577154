package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ payment.Repository = (*PaymentRepo)(nil)

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	table *postgres.Table[payment.Payment]
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{table: postgres.NewTable[payment.Payment](txm, "payments", "payment")}
}

func (r *PaymentRepo) Create(ctx context.Context, p payment.Payment) error {
	return r.table.Insert(ctx, p)
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (payment.Payment, error) {
	return r.table.GetByID(ctx, paymentID)
}

func (r *PaymentRepo) List(ctx context.Context, f payment.Filter) (domain.ListResult[payment.Payment], error) {
	q := inRange(r.table.SelectAll(), "paid_at", f.From, f.To)
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.PurchaseID != nil {
		q = q.Where(squirrel.Eq{"purchase_id": *f.PurchaseID})
	}
	return r.table.List(ctx, q, f.Page, "paid_at DESC", "created_at DESC")
}
