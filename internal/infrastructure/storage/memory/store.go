// Package memory provides an in-process store implementing every repository contract
// and the unit of work. It backs the service tests and the demo mode of the server.
package memory

import (
	"context"
	"maps"
	"sync"

	"kiosko/internal/core/id"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/domain/registers/lot"
)

type state struct {
	products  map[id.ID]product.Product
	suppliers map[id.ID]supplier.Supplier
	lots      map[id.ID]lot.Lot
	sales     map[id.ID]sale.Sale
	purchases map[id.ID]purchase.Purchase
	payments  map[id.ID]payment.Payment
	users     map[id.ID]auth.User
	audit     []audit.Entry
	sequences map[string]int64
}

func newState() *state {
	return &state{
		products:  make(map[id.ID]product.Product),
		suppliers: make(map[id.ID]supplier.Supplier),
		lots:      make(map[id.ID]lot.Lot),
		sales:     make(map[id.ID]sale.Sale),
		purchases: make(map[id.ID]purchase.Purchase),
		payments:  make(map[id.ID]payment.Payment),
		users:     make(map[id.ID]auth.User),
		sequences: make(map[string]int64),
	}
}

// clone copies the maps. Entity values are immutable so a shallow copy is a snapshot.
func (s *state) clone() *state {
	return &state{
		products:  maps.Clone(s.products),
		suppliers: maps.Clone(s.suppliers),
		lots:      maps.Clone(s.lots),
		sales:     maps.Clone(s.sales),
		purchases: maps.Clone(s.purchases),
		payments:  maps.Clone(s.payments),
		users:     maps.Clone(s.users),
		audit:     append([]audit.Entry(nil), s.audit...),
		sequences: maps.Clone(s.sequences),
	}
}

type txKey struct{}

// Store holds all shop data in memory.
//
// A unit of work holds the write lock from start to end, which gives the same
// isolation as row locks: concurrent operations run one after another.
// Repository calls outside a unit of work take the lock for the single call.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New creates an empty store.
func New() *Store {
	return &Store{st: newState()}
}

// Close releases nothing; it exists so the server can treat every store alike.
func (s *Store) Close() {}

// RunInTransaction implements tx.Manager. Nested calls join the outer unit of work.
// On error or panic the state is restored to what it was on entry.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			s.st = snapshot
			panic(r)
		}
		if err != nil {
			s.st = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// ReadOnly implements tx.ReadOnlyManager.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Repositories bound to this store.

func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }
func (s *Store) Lots() *LotRepo { return &LotRepo{s: s} }
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }
func (s *Store) Payments() *PaymentRepo { return &PaymentRepo{s: s} }
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }
func (s *Store) Sequences() *SequenceCounter { return &SequenceCounter{s: s} }
