package sale

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/core/id"
	"kiosko/internal/core/numerator"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/registers/lot"
	"kiosko/pkg/logger"
)

// LineInput is one requested line of a sale.
type LineInput struct {
	ProductID id.ID
	// LotID is required for batch-tracked products and must be empty otherwise.
	LotID    *id.ID
	Quantity int64
}

// RegisterInput is the request to register a sale.
type RegisterInput struct {
	Lines         []LineInput
	PaymentMethod string
	Note          string
}

func (in RegisterInput) validate() error {
	if len(in.Lines) == 0 {
		return apperror.NewValidation("sale must have at least one line").WithDetail("field", "lines")
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
	}
	return nil
}

// Service is the sale transaction engine.
type Service struct {
	repo      Repository
	products  product.Repository
	lots      lot.Repository
	journal   audit.Journal
	numerator numerator.Generator
	numOpts   *numerator.Options
	txm       tx.Manager
	ids       id.Generator
	clock     clock.Clock
}

// NewService creates the sale engine.
func NewService(
	repo Repository,
	products product.Repository,
	lots lot.Repository,
	journal audit.Journal,
	num numerator.Generator,
	numOpts *numerator.Options,
	txm tx.Manager,
	ids id.Generator,
	clk clock.Clock,
) *Service {
	if numOpts == nil {
		numOpts = numerator.DefaultOptions()
	}
	return &Service{
		repo:      repo,
		products:  products,
		lots:      lots,
		journal:   journal,
		numerator: num,
		numOpts:   numOpts,
		txm:       txm,
		ids:       ids,
		clock:     clk,
	}
}

// RegisterSale validates the request, takes the goods out of stock and records the sale
// in a single unit of work. Nothing is written when any line fails.
func (s *Service) RegisterSale(ctx context.Context, in RegisterInput) (Sale, error) {
	if err := in.validate(); err != nil {
		return Sale{}, err
	}

	var out Sale
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		// Products are locked in id order so that concurrent sales cannot deadlock.
		// Lots are locked after their product, which already serializes them.
		products := make(map[id.ID]product.Product, len(in.Lines))
		for _, productID := range distinctProducts(in.Lines) {
			p, err := s.products.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			products[productID] = p
		}

		lots := make(map[id.ID]lot.Lot)
		productDemand := make(map[id.ID]int64, len(products))
		lotDemand := make(map[id.ID]int64)
		lines := make([]Line, 0, len(in.Lines))

		for i, li := range in.Lines {
			p := products[li.ProductID]
			if !p.Active {
				return apperror.NewBusinessRule("product_inactive", "product "+p.Name+" is not active").
					WithDetail("product_id", p.ID.String()).
					WithDetail("line", i+1)
			}

			var picked *lot.Lot
			if p.TrackBatches {
				if li.LotID == nil {
					return apperror.NewValidation("lot is required for product "+p.Name).
						WithDetail("product_id", p.ID.String()).
						WithDetail("line", i+1)
				}
				l, ok := lots[*li.LotID]
				if !ok {
					var err error
					if l, err = s.lots.GetForUpdate(ctx, *li.LotID); err != nil {
						return err
					}
					lots[l.ID] = l
				}
				if l.ProductID != p.ID {
					return apperror.NewBusinessRule("lot_product_mismatch",
						"lot "+l.Number+" does not belong to product "+p.Name).
						WithDetail("lot_id", l.ID.String()).
						WithDetail("product_id", p.ID.String())
				}
				lotDemand[l.ID] += li.Quantity
				if lotDemand[l.ID] > l.Available() {
					return apperror.NewInsufficientStock(p.ID.String(), lotDemand[l.ID], l.Available()).
						WithDetail("lot_id", l.ID.String()).
						WithDetail("lot_number", l.Number)
				}
				picked = &l
			} else if li.LotID != nil {
				return apperror.NewValidation("product "+p.Name+" is not sold by lot").
					WithDetail("product_id", p.ID.String()).
					WithDetail("line", i+1)
			}

			productDemand[p.ID] += li.Quantity
			if !p.HasStock(productDemand[p.ID]) {
				return apperror.NewInsufficientStock(p.ID.String(), productDemand[p.ID], p.Stock)
			}

			lines = append(lines, NewLine(s.ids.New(), i+1, p, picked, li.Quantity))
		}

		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), s.numOpts, now)
		if err != nil {
			return fmt.Errorf("generate sale number: %w", err)
		}
		sale, err := New(s.ids.New(), number, lines, in.PaymentMethod, in.Note, appctx.GetUserID(ctx), now)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		for _, productID := range sortedKeys(productDemand) {
			p, err := products[productID].AdjustStock(-productDemand[productID], now)
			if err != nil {
				return err
			}
			if _, err := s.products.Update(ctx, p); err != nil {
				return err
			}
		}
		for _, lotID := range sortedKeys(lotDemand) {
			l, err := lots[lotID].Consume(lotDemand[lotID], now)
			if err != nil {
				return err
			}
			if _, err := s.lots.Update(ctx, l); err != nil {
				return err
			}
		}

		if err := s.journal.Record(ctx, audit.EntitySale, sale.ID, audit.ActionCreate, sale); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return Sale{}, err
	}

	logger.Info(ctx, "sale registered",
		"sale_id", out.ID,
		"number", out.Number,
		"total", out.Total.StringFixed(2),
		"profit", out.Profit.StringFixed(2),
		"lines", len(out.Lines))
	return out, nil
}

// GetByID returns the sale with its lines or NotFound.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// GetByNumber returns the sale with its lines or NotFound.
func (s *Service) GetByNumber(ctx context.Context, number string) (Sale, error) {
	return s.repo.GetByNumber(ctx, number)
}

// List returns sales in [f.From, f.To), newest first.
func (s *Service) List(ctx context.Context, f Filter) (domain.ListResult[Sale], error) {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return domain.ListResult[Sale]{}, apperror.NewValidation("date range end is before its start")
	}
	f.Page = f.Page.Normalize()
	return s.repo.List(ctx, f)
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
	sortIDs(out)
	return out
}

func sortedKeys(m map[id.ID]int64) []id.ID {
	out := make([]id.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortIDs(out)
	return out
}

func sortIDs(ids []id.ID) {
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
}
