package lot

import (
	"context"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain/catalogs/product"
)

// Service is the read side of the lot ledger. Lots are opened by the purchase
// engine and consumed by the sale engine inside their units of work.
type Service struct {
	repo     Repository
	products product.Repository
	txm      tx.Manager
	clock    clock.Clock
}

// NewService creates the lot ledger service.
func NewService(repo Repository, products product.Repository, txm tx.Manager, clk clock.Clock) *Service {
	return &Service{repo: repo, products: products, txm: txm, clock: clk}
}

// GetByID returns the lot or NotFound.
func (s *Service) GetByID(ctx context.Context, lotID id.ID) (Lot, error) {
	return s.repo.GetByID(ctx, lotID)
}

// ListAvailableForProduct lists lots with stock left, nearest expiry first.
// The caller still picks the lot explicitly at sale time.
func (s *Service) ListAvailableForProduct(ctx context.Context, productID id.ID) ([]Lot, error) {
	return s.repo.ListAvailable(ctx, productID)
}

// ListExpired lists lots past their expiration date that still hold stock.
func (s *Service) ListExpired(ctx context.Context) ([]Lot, error) {
	return s.repo.ListExpiringBetween(ctx, time.Time{}, s.clock.Now())
}

// ListExpiringWithin lists lots with stock expiring between now and now+days.
func (s *Service) ListExpiringWithin(ctx context.Context, days int) ([]Lot, error) {
	if days < 0 {
		return nil, apperror.NewValidation("days cannot be negative").WithDetail("field", "days")
	}
	now := s.clock.Now()
	// upper bound is inclusive
	return s.repo.ListExpiringBetween(ctx, now, now.AddDate(0, 0, days).Add(time.Nanosecond))
}

// Delete removes a lot opened by mistake and takes its units off the product counter.
// Lots with consumption are kept.
func (s *Service) Delete(ctx context.Context, lotID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		l, err := s.repo.GetByID(ctx, lotID)
		if err != nil {
			return err
		}
		// product before lot, the same order the sale engine locks in
		prod, err := s.products.GetForUpdate(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if l, err = s.repo.GetForUpdate(ctx, lotID); err != nil {
			return err
		}
		if l.Consumed > 0 {
			return apperror.NewBusinessRule("lot_consumed", "lot "+l.Number+" has sales and cannot be deleted").
				WithDetail("lot_id", l.ID.String())
		}
		prod, err = prod.AdjustStock(-l.Quantity, s.clock.Now())
		if err != nil {
			return err
		}
		if _, err := s.products.Update(ctx, prod); err != nil {
			return err
		}
		return s.repo.Delete(ctx, lotID)
	})
}
