// Package apptest builds the services over the in-memory store for tests,
// with a fixed clock, sequential ids and helpers for common fixtures.
package apptest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kiosko/internal/app"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain"
	"kiosko/internal/domain/auth"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/infrastructure/storage/memory"
)

// Now is the initial time of the test clock.
var Now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// Shop is a fully wired core over a fresh memory store.
type Shop struct {
	*app.Services
	Store *memory.Store
	Clock *clock.Mock
}

// Option adjusts app.Options before the shop is built.
type Option func(*app.Options)

// WithCache sets the read cache.
func WithCache(c domain.ReadCache) Option {
	return func(o *app.Options) { o.Cache = c }
}

// New builds a shop.
func New(t testing.TB, opts ...Option) *Shop {
	t.Helper()
	clk := clock.NewMock(Now)
	o := app.Options{
		Clock:    clk,
		IDs:      &id.SequenceGenerator{},
		JWT:      auth.DefaultJWTConfig("test-secret"),
		Auth:     auth.ServiceConfig{BcryptCost: bcrypt.MinCost},
		CacheTTL: time.Minute,
	}
	for _, opt := range opts {
		opt(&o)
	}
	svcs, st, err := app.NewMemory(o)
	require.NoError(t, err)
	return &Shop{Services: svcs, Store: st, Clock: clk}
}

// Supplier creates an active supplier.
func (s *Shop) Supplier(t testing.TB, name string) supplier.Supplier {
	t.Helper()
	sup, err := s.Suppliers.Create(context.Background(), supplier.Details{Name: name})
	require.NoError(t, err)
	return sup
}

// Product creates a product with the given prices.
func (s *Shop) Product(t testing.TB, code string, cost, price string, trackBatches bool) product.Product {
	t.Helper()
	p, err := s.Products.Create(context.Background(), product.CreateParams{
		Code:             code,
		Name:             code,
		PurchasePrice:    types.MustMoney(cost),
		SalePrice:        types.MustMoney(price),
		ReorderThreshold: 2,
		TrackBatches:     trackBatches,
	})
	require.NoError(t, err)
	return p
}

// Receive registers a cash purchase of quantity units of p at its current cost and
// returns the purchase.
func (s *Shop) Receive(t testing.TB, sup supplier.Supplier, p product.Product, quantity int64) purchase.Purchase {
	t.Helper()
	pur, err := s.Purchases.RegisterPurchase(context.Background(), purchase.RegisterInput{
		SupplierID:   sup.ID,
		PaymentTerms: purchase.TermsCash,
		Lines:        []purchase.LineInput{{ProductID: p.ID, Quantity: quantity, UnitCost: p.PurchasePrice}},
	})
	require.NoError(t, err)
	return pur
}

// ReloadProduct reads p again.
func (s *Shop) ReloadProduct(t testing.TB, p product.Product) product.Product {
	t.Helper()
	out, err := s.Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	return out
}
