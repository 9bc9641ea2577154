package payment

import (
	"context"
	"fmt"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/core/id"
	"kiosko/internal/core/tx"
	"kiosko/internal/core/types"
	"kiosko/internal/domain"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/pkg/logger"
)

// ApplyInput is the request to pay a supplier.
type ApplyInput struct {
	SupplierID id.ID
	Amount     types.Money
	// PurchaseID assigns the payment to one purchase; nil records an unassigned payment.
	PurchaseID *id.ID
	Method     string
	Note       string
	PaidAt     *time.Time
}

// SupplierReader resolves the paid supplier.
type SupplierReader interface {
	GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error)
}

// Service is the payment allocator.
type Service struct {
	repo      Repository
	suppliers SupplierReader
	purchases purchase.Repository
	journal   audit.Journal
	txm       tx.Manager
	ids       id.Generator
	clock     clock.Clock
}

// NewService creates the payment allocator.
func NewService(
	repo Repository,
	suppliers SupplierReader,
	purchases purchase.Repository,
	journal audit.Journal,
	txm tx.Manager,
	ids id.Generator,
	clk clock.Clock,
) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliers,
		purchases: purchases,
		journal:   journal,
		txm:       txm,
		ids:       ids,
		clock:     clk,
	}
}

// ApplyPayment records a payment and, when a purchase is given, applies it to that
// purchase's balance. One unit of work.
func (s *Service) ApplyPayment(ctx context.Context, in ApplyInput) (Payment, error) {
	if !types.RoundMoney(in.Amount).IsPositive() {
		return Payment{}, apperror.NewValidation("payment amount must be greater than zero").WithDetail("field", "amount")
	}

	var out Payment
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		if _, err := s.suppliers.GetByID(ctx, in.SupplierID); err != nil {
			return err
		}

		params := Params{
			SupplierID: in.SupplierID,
			PurchaseID: in.PurchaseID,
			Amount:     in.Amount,
			Method:     in.Method,
			Note:       in.Note,
			UserID:     appctx.GetUserID(ctx),
		}
		if in.PaidAt != nil {
			params.PaidAt = *in.PaidAt
		}
		pay, err := New(s.ids.New(), params, now)
		if err != nil {
			return err
		}

		if in.PurchaseID != nil {
			pur, err := s.purchases.GetForUpdate(ctx, *in.PurchaseID)
			if err != nil {
				return err
			}
			if pur.SupplierID != in.SupplierID {
				return apperror.NewBusinessRule("purchase_supplier_mismatch",
					"purchase "+pur.Number+" belongs to another supplier").
					WithDetail("purchase_id", pur.ID.String()).
					WithDetail("supplier_id", in.SupplierID.String())
			}
			pur, err = pur.ApplyPayment(pay.Amount, now)
			if err != nil {
				return err
			}
			if _, err := s.purchases.Update(ctx, pur); err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, pay); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if err := s.journal.Record(ctx, audit.EntityPayment, pay.ID, audit.ActionCreate, pay); err != nil {
			return err
		}
		out = pay
		return nil
	})
	if err != nil {
		return Payment{}, err
	}

	logger.Info(ctx, "supplier payment applied",
		"payment_id", out.ID,
		"supplier_id", out.SupplierID,
		"purchase_id", out.PurchaseID,
		"amount", out.Amount.StringFixed(types.MoneyScale))
	return out, nil
}

// GetByID returns the payment or NotFound.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// List returns payments matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) (domain.ListResult[Payment], error) {
	f.Page = f.Page.Normalize()
	return s.repo.List(ctx, f)
}
