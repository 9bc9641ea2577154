package purchase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/numerator"
	"kiosko/internal/core/tx"
	"kiosko/internal/core/types"
	"kiosko/internal/domain"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/registers/lot"
	"kiosko/pkg/logger"
)

// LineInput is one product received.
type LineInput struct {
	ProductID id.ID
	Quantity  int64
	UnitCost  types.Money
	// ExpiresAt overrides the purchase-level expiry for the lot opened by this line.
	ExpiresAt *time.Time
}

// RegisterInput is the request to register a purchase.
type RegisterInput struct {
	SupplierID    id.ID
	Lines         []LineInput
	InvoiceNumber *string
	PaymentTerms  PaymentTerms
	DueDate       *time.Time
	PurchasedAt   *time.Time
	// ExpiresAt applies to every lot opened without a line expiry.
	ExpiresAt *time.Time
	Note      string
}

func (in RegisterInput) validate() error {
	if id.IsNil(in.SupplierID) {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplierId")
	}
	if len(in.Lines) == 0 {
		return apperror.NewValidation("purchase must have at least one line").WithDetail("field", "lines")
	}
	for i, l := range in.Lines {
		if id.IsNil(l.ProductID) {
			return apperror.NewValidation("product is required").WithDetail("line", i+1)
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be greater than zero").
				WithDetail("line", i+1).
				WithDetail("quantity", l.Quantity)
		}
		if l.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost cannot be negative").WithDetail("line", i+1)
		}
	}
	if in.InvoiceNumber != nil && strings.TrimSpace(*in.InvoiceNumber) == "" {
		return apperror.NewValidation("invoice number cannot be blank").WithDetail("field", "invoiceNumber")
	}
	return nil
}

// SupplierReader resolves the supplier of a purchase.
type SupplierReader interface {
	GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error)
}

// Service is the purchase transaction engine.
type Service struct {
	repo          Repository
	suppliers     SupplierReader
	products      product.Repository
	lots          lot.Repository
	journal       audit.Journal
	numerator     numerator.Generator
	numOpts       *numerator.Options
	txm           tx.Manager
	ids           id.Generator
	clock         clock.Clock
	shelfLifeDays int
}

// Deps groups the collaborators of the purchase engine.
type Deps struct {
	Repo      Repository
	Suppliers SupplierReader
	Products  product.Repository
	Lots      lot.Repository
	Journal   audit.Journal
	Numerator numerator.Generator
	// NumeratorOptions defaults to strict numbering.
	NumeratorOptions *numerator.Options
	TxManager        tx.Manager
	IDs              id.Generator
	Clock            clock.Clock
	// ShelfLifeDays defaults to DefaultShelfLifeDays.
	ShelfLifeDays int
}

// NewService creates the purchase engine.
func NewService(d Deps) *Service {
	if d.NumeratorOptions == nil {
		d.NumeratorOptions = numerator.DefaultOptions()
	}
	if d.ShelfLifeDays <= 0 {
		d.ShelfLifeDays = DefaultShelfLifeDays
	}
	return &Service{
		repo:          d.Repo,
		suppliers:     d.Suppliers,
		products:      d.Products,
		lots:          d.Lots,
		journal:       d.Journal,
		numerator:     d.Numerator,
		numOpts:       d.NumeratorOptions,
		txm:           d.TxManager,
		ids:           d.IDs,
		clock:         d.Clock,
		shelfLifeDays: d.ShelfLifeDays,
	}
}

// RegisterPurchase records received goods: stock goes up, purchase costs are refreshed,
// batch-tracked products get a new lot per line. One unit of work.
func (s *Service) RegisterPurchase(ctx context.Context, in RegisterInput) (Purchase, error) {
	if err := in.validate(); err != nil {
		return Purchase{}, err
	}
	terms := in.PaymentTerms
	if terms == "" {
		terms = TermsCash
	}
	if _, err := ParsePaymentTerms(string(terms)); err != nil {
		return Purchase{}, err
	}

	var out Purchase
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		sup, err := s.suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if !sup.Active {
			return apperror.NewBusinessRule("supplier_inactive", "supplier "+sup.Name+" is not active").
				WithDetail("supplier_id", sup.ID.String())
		}

		products := make(map[id.ID]product.Product, len(in.Lines))
		for _, productID := range distinctProducts(in.Lines) {
			p, err := s.products.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			products[productID] = p
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), s.numOpts, now)
		if err != nil {
			return fmt.Errorf("generate purchase number: %w", err)
		}
		purchaseID := s.ids.New()

		lines := make([]Line, len(in.Lines))
		var opened []lot.Lot
		for i, li := range in.Lines {
			p := products[li.ProductID]
			if p, err = p.AdjustStock(li.Quantity, now); err != nil {
				return err
			}
			// last cost wins, line order
			if p, err = p.RefreshPurchaseCost(li.UnitCost, now); err != nil {
				return err
			}
			products[p.ID] = p

			lines[i] = Line{ID: s.ids.New(), ProductID: p.ID, Quantity: li.Quantity, UnitCost: li.UnitCost}

			if !p.TrackBatches {
				continue
			}
			lotNumber, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(LotPrefix(p.Code)), s.numOpts, now)
			if err != nil {
				return fmt.Errorf("generate lot number: %w", err)
			}
			l, err := lot.Open(s.ids.New(), p, lot.OpenParams{
				Number:     lotNumber,
				Quantity:   li.Quantity,
				ExpiresAt:  s.lotExpiry(li, in, now),
				PurchaseID: id.Ptr(purchaseID),
			}, now)
			if err != nil {
				return err
			}
			lines[i].LotID = id.Ptr(l.ID)
			opened = append(opened, l)
		}

		purchasedAt := now
		if in.PurchasedAt != nil {
			purchasedAt = *in.PurchasedAt
		}
		pur, err := New(purchaseID, Header{
			Number:        number,
			InvoiceNumber: in.InvoiceNumber,
			PurchasedAt:   purchasedAt,
			PaymentTerms:  terms,
			DueDate:       in.DueDate,
			SupplierID:    sup.ID,
			Note:          in.Note,
		}, lines, now)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, pur); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		for _, l := range opened {
			if err := s.lots.Create(ctx, l); err != nil {
				return fmt.Errorf("create lot: %w", err)
			}
		}
		for _, productID := range distinctProducts(in.Lines) {
			if _, err := s.products.Update(ctx, products[productID]); err != nil {
				return err
			}
		}

		if err := s.journal.Record(ctx, audit.EntityPurchase, pur.ID, audit.ActionCreate, pur); err != nil {
			return err
		}
		out = pur
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}

	logger.Info(ctx, "purchase registered",
		"purchase_id", out.ID,
		"number", out.Number,
		"supplier_id", out.SupplierID,
		"total", out.Total.StringFixed(types.MoneyScale),
		"terms", out.PaymentTerms,
		"paid", out.Paid)
	return out, nil
}

// GetByID returns the purchase with its lines or NotFound.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (Purchase, error) {
	return s.repo.GetByID(ctx, purchaseID)
}

// List returns purchases matching f, newest first.
func (s *Service) List(ctx context.Context, f Filter) (domain.ListResult[Purchase], error) {
	f.Page = f.Page.Normalize()
	return s.repo.List(ctx, f)
}

func (s *Service) lotExpiry(li LineInput, in RegisterInput, now time.Time) time.Time {
	switch {
	case li.ExpiresAt != nil:
		return *li.ExpiresAt
	case in.ExpiresAt != nil:
		return *in.ExpiresAt
	default:
		return now.AddDate(0, 0, s.shelfLifeDays)
	}
}

func distinctProducts(lines []LineInput) []id.ID {
	seen := make(map[id.ID]struct{}, len(lines))
	out := make([]id.ID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		out = append(out, l.ProductID)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
