package catalog_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	table *postgres.Table[supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{table: postgres.NewTable[supplier.Supplier](txm, "suppliers", "supplier")}
}

func (r *SupplierRepo) Create(ctx context.Context, s supplier.Supplier) error {
	return r.table.Insert(ctx, s)
}

func (r *SupplierRepo) Update(ctx context.Context, s supplier.Supplier) (supplier.Supplier, error) {
	if err := r.table.UpdateVersioned(ctx, s); err != nil {
		return supplier.Supplier{}, err
	}
	s.Base = s.Base.NextVersion()
	return s, nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error) {
	return r.table.GetByID(ctx, supplierID)
}

func (r *SupplierRepo) List(ctx context.Context, f supplier.Filter) (domain.ListResult[supplier.Supplier], error) {
	q := r.table.SelectAll()
	if f.Active != nil {
		q = q.Where(squirrel.Eq{"active": *f.Active})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(squirrel.ILike{"name": "%" + escapeLike(s) + "%"})
	}
	return r.table.List(ctx, q, f.Page, "name")
}
