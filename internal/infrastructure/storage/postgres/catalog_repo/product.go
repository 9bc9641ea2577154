// Package catalog_repo provides PostgreSQL implementations of the catalog repositories.
package catalog_repo

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	table *postgres.Table[product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{table: postgres.NewTable[product.Product](txm, "products", "product")}
}

func (r *ProductRepo) Create(ctx context.Context, p product.Product) error {
	err := r.table.Insert(ctx, p)
	if apperror.IsDuplicate(err) {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	if err := r.table.UpdateVersioned(ctx, p); err != nil {
		return product.Product{}, err
	}
	p.Base = p.Base.NextVersion()
	return p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (product.Product, error) {
	return r.table.GetByID(ctx, productID)
}

// GetByCode matches the code case-insensitively, like the unique index.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (product.Product, error) {
	q := r.table.SelectAll().Where(squirrel.Expr("lower(code) = lower(?)", strings.TrimSpace(code)))
	return r.table.Get(ctx, q, code)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (product.Product, error) {
	return r.table.GetForUpdate(ctx, productID)
}

func (r *ProductRepo) List(ctx context.Context, f product.Filter) (domain.ListResult[product.Product], error) {
	q := r.table.SelectAll()
	if f.Active != nil {
		q = q.Where(squirrel.Eq{"active": *f.Active})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Expr("lower(category) = lower(?)", f.Category))
	}
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
		})
	}
	return r.table.List(ctx, q, f.Page, "code")
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]product.Product, error) {
	q := r.table.SelectAll().
		Where(squirrel.Eq{"active": true}).
		Where("stock <= reorder_threshold").
		OrderBy("stock", "code")
	return r.table.Select(ctx, q)
}

// escapeLike quotes the LIKE wildcards of user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
