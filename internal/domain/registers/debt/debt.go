// Package debt provides the supplier ledger: what the shop owes and what is overdue.
package debt

import (
	"context"
	"sort"
	"time"

	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/purchase"
)

// Summary is the debt position with one supplier.
type Summary struct {
	SupplierID           id.ID       `json:"supplierId"`
	SupplierName         string      `json:"supplierName"`
	TotalOutstanding     types.Money `json:"totalOutstanding"`
	PendingPurchaseCount int         `json:"pendingPurchaseCount"`
	OverduePurchaseCount int         `json:"overduePurchaseCount"`
}

// SupplierReader resolves suppliers.
type SupplierReader interface {
	GetByID(ctx context.Context, supplierID id.ID) (supplier.Supplier, error)
}

// UnpaidReader lists unpaid purchases.
type UnpaidReader interface {
	ListUnpaid(ctx context.Context, supplierID *id.ID) ([]purchase.Purchase, error)
}

// Service computes supplier debt from unpaid purchases.
type Service struct {
	suppliers SupplierReader
	purchases UnpaidReader
	clock     clock.Clock
}

// NewService creates the supplier ledger.
func NewService(suppliers SupplierReader, purchases UnpaidReader, clk clock.Clock) *Service {
	return &Service{suppliers: suppliers, purchases: purchases, clock: clk}
}

// OutstandingBalance is total minus amount paid, zero when paid.
func OutstandingBalance(p purchase.Purchase) types.Money {
	return p.OutstandingBalance()
}

// DebtSummary returns the debt with one supplier, NotFound for an unknown supplier.
func (s *Service) DebtSummary(ctx context.Context, supplierID id.ID) (Summary, error) {
	sup, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return Summary{}, err
	}
	unpaid, err := s.purchases.ListUnpaid(ctx, &supplierID)
	if err != nil {
		return Summary{}, err
	}
	sum := summarize(sup.ID, unpaid, s.clock.Now())
	sum.SupplierName = sup.Name
	return sum, nil
}

// OverdueSuppliers lists suppliers with at least one overdue purchase, largest debt first.
func (s *Service) OverdueSuppliers(ctx context.Context) ([]Summary, error) {
	unpaid, err := s.purchases.ListUnpaid(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	bySupplier := make(map[id.ID][]purchase.Purchase)
	for _, p := range unpaid {
		bySupplier[p.SupplierID] = append(bySupplier[p.SupplierID], p)
	}

	out := make([]Summary, 0)
	for supplierID, list := range bySupplier {
		sum := summarize(supplierID, list, now)
		if sum.OverduePurchaseCount == 0 {
			continue
		}
		sup, err := s.suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		sum.SupplierName = sup.Name
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalOutstanding.Cmp(out[j].TotalOutstanding); c != 0 {
			return c > 0
		}
		return out[i].SupplierName < out[j].SupplierName
	})
	return out, nil
}

func summarize(supplierID id.ID, purchases []purchase.Purchase, now time.Time) Summary {
	sum := Summary{SupplierID: supplierID, TotalOutstanding: types.Zero()}
	balances := make([]types.Money, 0, len(purchases))
	for _, p := range purchases {
		if p.Paid {
			continue
		}
		balances = append(balances, p.OutstandingBalance())
		sum.PendingPurchaseCount++
		if p.IsOverdue(now) {
			sum.OverduePurchaseCount++
		}
	}
	sum.TotalOutstanding = types.Sum(balances...)
	return sum
}
