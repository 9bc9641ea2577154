package memory

import (
	"context"
	"sort"
	"strings"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
)

// ProductRepo implements product.Repository.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(ctx context.Context, p product.Product) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return apperror.NewDuplicate("product", "id", p.ID.String())
		}
		for _, existing := range st.products {
			if strings.EqualFold(existing.Code, p.Code) {
				return apperror.NewDuplicate("product", "code", p.Code)
			}
		}
		st.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return apperror.NewNotFound("product", p.ID)
		}
		if cur.Version != p.Version {
			return apperror.NewConcurrentModification("product", p.ID)
		}
		p.Base = p.Base.NextVersion()
		st.products[p.ID] = p
		return nil
	})
	if err != nil {
		return product.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (product.Product, error) {
	var out product.Product
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByCode(ctx context.Context, code string) (product.Product, error) {
	var out product.Product
	err := r.s.read(ctx, func(st *state) error {
		for _, p := range st.products {
			if strings.EqualFold(p.Code, strings.TrimSpace(code)) {
				out = p
				return nil
			}
		}
		return apperror.NewNotFound("product", code)
	})
	return out, err
}

// GetForUpdate is GetByID: the unit of work already holds the store lock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) List(ctx context.Context, f product.Filter) (domain.ListResult[product.Product], error) {
	var items []product.Product
	_ = r.s.read(ctx, func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, p := range st.products {
			if f.Active != nil && p.Active != *f.Active {
				continue
			}
			if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
				continue
			}
			if f.SupplierID != nil && (p.SupplierID == nil || *p.SupplierID != *f.SupplierID) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Code), search) &&
				!strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			items = append(items, p)
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return domain.Paginate(items, f.Page), nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0)
	_ = r.s.read(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Active && p.IsBelowReorderThreshold() {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(ctx context.Context, sup supplier.Supplier) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.suppliers[sup.ID]; ok {
			return apperror.NewDuplicate("supplier", "id", sup.ID.String())
		}
		st.suppliers[sup.ID] = sup
		return nil
	})
}

func (r *SupplierRepo) Update(ctx context.Context, sup supplier.Supplier) (supplier.Supplier, error) {
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.suppliers[sup.ID]
		if !ok {
			return apperror.NewNotFound("supplier", sup.ID)
		}
		if cur.Version != sup.Version {
			return apperror.NewConcurrentModification("supplier", sup.ID)
		}
		sup.Base = sup.Base.NextVersion()
		st.suppliers[sup.ID] = sup
		return nil
	})
	if err != nil {
		return supplier.Supplier{}, err
	}
	return sup, nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error) {
	var out supplier.Supplier
	err := r.s.read(ctx, func(st *state) error {
		sup, ok := st.suppliers[supplierID]
		if !ok {
			return apperror.NewNotFound("supplier", supplierID)
		}
		out = sup
		return nil
	})
	return out, err
}

func (r *SupplierRepo) List(ctx context.Context, f supplier.Filter) (domain.ListResult[supplier.Supplier], error) {
	var items []supplier.Supplier
	_ = r.s.read(ctx, func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, sup := range st.suppliers {
			if f.Active != nil && sup.Active != *f.Active {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(sup.Name), search) {
				continue
			}
			items = append(items, sup)
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return domain.Paginate(items, f.Page), nil
}
