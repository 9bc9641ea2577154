package memory

import (
	"context"
	"sort"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
)

func inRange(t, from, to time.Time) bool {
	return (from.IsZero() || !t.Before(from)) && (to.IsZero() || t.Before(to))
}

// SaleRepo implements sale.Repository.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(ctx context.Context, sl sale.Sale) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.sales[sl.ID]; ok {
			return apperror.NewDuplicate("sale", "id", sl.ID.String())
		}
		for _, existing := range st.sales {
			if existing.Number == sl.Number {
				return apperror.NewDuplicate("sale", "number", sl.Number)
			}
		}
		sl.Lines = append([]sale.Line(nil), sl.Lines...)
		st.sales[sl.ID] = sl
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (sale.Sale, error) {
	var out sale.Sale
	err := r.s.read(ctx, func(st *state) error {
		sl, ok := st.sales[saleID]
		if !ok {
			return apperror.NewNotFound("sale", saleID)
		}
		out = sl
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetByNumber(ctx context.Context, number string) (sale.Sale, error) {
	var out sale.Sale
	err := r.s.read(ctx, func(st *state) error {
		for _, sl := range st.sales {
			if sl.Number == number {
				out = sl
				return nil
			}
		}
		return apperror.NewNotFound("sale", number)
	})
	return out, err
}

func (r *SaleRepo) List(ctx context.Context, f sale.Filter) (domain.ListResult[sale.Sale], error) {
	var items []sale.Sale
	_ = r.s.read(ctx, func(st *state) error {
		for _, sl := range st.sales {
			if inRange(sl.SoldAt, f.From, f.To) {
				items = append(items, sl)
			}
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SoldAt.Equal(items[j].SoldAt) {
			return items[i].SoldAt.After(items[j].SoldAt)
		}
		return items[i].Number > items[j].Number
	})
	return domain.Paginate(items, f.Page), nil
}

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) Create(ctx context.Context, p purchase.Purchase) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.purchases[p.ID]; ok {
			return apperror.NewDuplicate("purchase", "id", p.ID.String())
		}
		if _, ok := st.suppliers[p.SupplierID]; !ok {
			return apperror.NewNotFound("supplier", p.SupplierID)
		}
		p.Lines = append([]purchase.Line(nil), p.Lines...)
		st.purchases[p.ID] = p
		return nil
	})
}

// Update writes the payment state only; stored lines are kept.
func (r *PurchaseRepo) Update(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error) {
	err := r.s.write(ctx, func(st *state) error {
		cur, ok := st.purchases[p.ID]
		if !ok {
			return apperror.NewNotFound("purchase", p.ID)
		}
		if cur.Version != p.Version {
			return apperror.NewConcurrentModification("purchase", p.ID)
		}
		p.Base = p.Base.NextVersion()
		p.Lines = cur.Lines
		st.purchases[p.ID] = p
		return nil
	})
	if err != nil {
		return purchase.Purchase{}, err
	}
	return p, nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (purchase.Purchase, error) {
	var out purchase.Purchase
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.purchases[purchaseID]
		if !ok {
			return apperror.NewNotFound("purchase", purchaseID)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (purchase.Purchase, error) {
	p, err := r.GetByID(ctx, purchaseID)
	p.Lines = nil
	return p, err
}

func (r *PurchaseRepo) List(ctx context.Context, f purchase.Filter) (domain.ListResult[purchase.Purchase], error) {
	items := r.filter(ctx, func(p purchase.Purchase) bool {
		if f.SupplierID != nil && p.SupplierID != *f.SupplierID {
			return false
		}
		if f.UnpaidOnly && p.Paid {
			return false
		}
		return inRange(p.PurchasedAt, f.From, f.To)
	})
	return domain.Paginate(items, f.Page), nil
}

func (r *PurchaseRepo) ListUnpaid(ctx context.Context, supplierID *id.ID) ([]purchase.Purchase, error) {
	items := r.filter(ctx, func(p purchase.Purchase) bool {
		return !p.Paid && (supplierID == nil || p.SupplierID == *supplierID)
	})
	for i := range items {
		items[i].Lines = nil
	}
	return items, nil
}

func (r *PurchaseRepo) filter(ctx context.Context, keep func(purchase.Purchase) bool) []purchase.Purchase {
	out := make([]purchase.Purchase, 0)
	_ = r.s.read(ctx, func(st *state) error {
		for _, p := range st.purchases {
			if keep(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchasedAt.Equal(out[j].PurchasedAt) {
			return out[i].PurchasedAt.After(out[j].PurchasedAt)
		}
		return out[i].Number > out[j].Number
	})
	return out
}

// PaymentRepo implements payment.Repository.
type PaymentRepo struct{ s *Store }

func (r *PaymentRepo) Create(ctx context.Context, p payment.Payment) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.payments[p.ID]; ok {
			return apperror.NewDuplicate("payment", "id", p.ID.String())
		}
		st.payments[p.ID] = p
		return nil
	})
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (payment.Payment, error) {
	var out payment.Payment
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.payments[paymentID]
		if !ok {
			return apperror.NewNotFound("payment", paymentID)
		}
		out = p
		return nil
	})
	return out, err
}

func (r *PaymentRepo) List(ctx context.Context, f payment.Filter) (domain.ListResult[payment.Payment], error) {
	var items []payment.Payment
	_ = r.s.read(ctx, func(st *state) error {
		for _, p := range st.payments {
			if f.SupplierID != nil && p.SupplierID != *f.SupplierID {
				continue
			}
			if f.PurchaseID != nil && (p.PurchaseID == nil || *p.PurchaseID != *f.PurchaseID) {
				continue
			}
			if inRange(p.PaidAt, f.From, f.To) {
				items = append(items, p)
			}
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PaidAt.Equal(items[j].PaidAt) {
			return items[i].PaidAt.After(items[j].PaidAt)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return domain.Paginate(items, f.Page), nil
}
