package product

import (
	"context"
	"fmt"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/pkg/logger"
)

// SupplierReader resolves supplier references.
type SupplierReader interface {
	GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error)
}

// Service is the product catalog.
type Service struct {
	repo      Repository
	suppliers SupplierReader
	txm       tx.Manager
	ids       id.Generator
	clock     clock.Clock
}

// NewService creates the catalog service.
func NewService(repo Repository, suppliers SupplierReader, txm tx.Manager, ids id.Generator, clk clock.Clock) *Service {
	return &Service{repo: repo, suppliers: suppliers, txm: txm, ids: ids, clock: clk}
}

// Create adds a product. Codes are unique.
func (s *Service) Create(ctx context.Context, p CreateParams) (Product, error) {
	prod, err := New(s.ids.New(), p, s.clock.Now())
	if err != nil {
		return Product{}, err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkSupplier(ctx, prod.SupplierID); err != nil {
			return err
		}
		if _, err := s.repo.GetByCode(ctx, prod.Code); err == nil {
			return apperror.NewDuplicate("product", "code", prod.Code)
		} else if !apperror.IsNotFound(err) {
			return err
		}
		if err := s.repo.Create(ctx, prod); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return Product{}, err
	}

	logger.Info(ctx, "product created", "product_id", prod.ID, "code", prod.Code)
	return prod, nil
}

// Update edits prices and descriptive fields. Stock is only moved by sales and purchases.
func (s *Service) Update(ctx context.Context, productID id.ID, u UpdateParams) (Product, error) {
	var out Product
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if u.SupplierID != nil {
			if err := s.checkSupplier(ctx, u.SupplierID); err != nil {
				return err
			}
		}
		next, err := cur.Apply(u, s.clock.Now())
		if err != nil {
			return err
		}
		out, err = s.repo.Update(ctx, next)
		return err
	})
	return out, err
}

// Deactivate withdraws a product from sale. Products are never deleted.
func (s *Service) Deactivate(ctx context.Context, productID id.ID) (Product, error) {
	var out Product
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		out, err = s.repo.Update(ctx, cur.Deactivate(s.clock.Now()))
		return err
	})
	if err == nil {
		logger.Info(ctx, "product deactivated", "product_id", productID)
	}
	return out, err
}

// GetByID returns the product or NotFound.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetByCode returns the product or NotFound.
func (s *Service) GetByCode(ctx context.Context, code string) (Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns products matching f.
func (s *Service) List(ctx context.Context, f Filter) (domain.ListResult[Product], error) {
	f.Page = f.Page.Normalize()
	return s.repo.List(ctx, f)
}

// ListLowStock returns active products at or below their reorder threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListLowStock(ctx)
}

// ListBySupplier returns the active products supplied by supplierID.
func (s *Service) ListBySupplier(ctx context.Context, supplierID id.ID, page domain.Page) (domain.ListResult[Product], error) {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return domain.ListResult[Product]{}, err
	}
	active := true
	return s.List(ctx, Filter{SupplierID: &supplierID, Active: &active, Page: page})
}

func (s *Service) checkSupplier(ctx context.Context, supplierID *id.ID) error {
	if supplierID == nil {
		return nil
	}
	_, err := s.suppliers.GetByID(ctx, *supplierID)
	return err
}
