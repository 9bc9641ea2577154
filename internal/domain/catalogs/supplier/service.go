package supplier

import (
	"context"
	"fmt"

	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain"
	"kiosko/pkg/logger"
)

// Service manages suppliers.
type Service struct {
	repo  Repository
	txm   tx.Manager
	ids   id.Generator
	clock clock.Clock
}

// NewService creates a supplier service.
func NewService(repo Repository, txm tx.Manager, ids id.Generator, clk clock.Clock) *Service {
	return &Service{repo: repo, txm: txm, ids: ids, clock: clk}
}

// Create registers a supplier.
func (s *Service) Create(ctx context.Context, d Details) (Supplier, error) {
	sup, err := New(s.ids.New(), d, s.clock.Now())
	if err != nil {
		return Supplier{}, err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	logger.Info(ctx, "supplier created", "supplier_id", sup.ID, "name", sup.Name)
	return sup, nil
}

// Update replaces the supplier details.
func (s *Service) Update(ctx context.Context, supplierID id.ID, d Details) (Supplier, error) {
	var out Supplier
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		next, err := cur.Update(d, s.clock.Now())
		if err != nil {
			return err
		}
		out, err = s.repo.Update(ctx, next)
		return err
	})
	return out, err
}

// Deactivate closes the supplier for new purchases. Debts stay payable.
func (s *Service) Deactivate(ctx context.Context, supplierID id.ID) (Supplier, error) {
	var out Supplier
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		out, err = s.repo.Update(ctx, cur.Deactivate(s.clock.Now()))
		return err
	})
	return out, err
}

// GetByID returns a supplier or NotFound.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// List returns suppliers matching f.
func (s *Service) List(ctx context.Context, f Filter) (domain.ListResult[Supplier], error) {
	f.Page = f.Page.Normalize()
	return s.repo.List(ctx, f)
}
