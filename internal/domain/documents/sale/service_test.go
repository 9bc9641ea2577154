package sale_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/app/apptest"
	"kiosko/internal/core/apperror"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/domain/registers/lot"
	"kiosko/pkg/numerator"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestRegisterSale_NonBatchProduct(t *testing.T) {
	shop := apptest.New(t)
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "cashier-1", Role: "employee"})
	sup := shop.Supplier(t, "Distribuidora Norte")
	p := shop.Product(t, "P", "5.00", "8.00", false)
	shop.Receive(t, sup, p, 10)

	s, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err, spew.Sdump(s))

	assert.True(t, money("24.00").Equal(s.Total), "total %s", s.Total)
	assert.True(t, money("9.00").Equal(s.Profit), "profit %s", s.Profit)
	assert.Equal(t, "V-2025-00001", s.Number)
	assert.Equal(t, sale.DefaultPaymentMethod, s.PaymentMethod)
	assert.Equal(t, "cashier-1", s.UserID)
	require.Len(t, s.Lines, 1)
	assert.Equal(t, "P", s.Lines[0].ProductCode)
	assert.True(t, money("5.00").Equal(s.Lines[0].UnitCost))
	assert.Equal(t, int64(7), shop.ReloadProduct(t, p).Stock)

	stored, err := shop.Sales.GetByNumber(ctx, s.Number)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stored.ID)
	assert.True(t, s.Total.Equal(stored.Total))

	history, err := shop.Audit.History(ctx, audit.EntitySale, s.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "cashier-1", history[0].UserID)
}

func TestRegisterSale_Margin(t *testing.T) {
	shop := apptest.New(t)
	sup := shop.Supplier(t, "S")
	p := shop.Product(t, "P", "5.00", "8.00", false)
	shop.Receive(t, sup, p, 10)

	s, err := shop.Sales.RegisterSale(context.Background(), sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: p.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, money("15.00").Equal(s.Cost()))
	assert.True(t, money("60.00").Equal(s.Margin()), "margin %s", s.Margin())
	assert.Equal(t, int64(3), s.Quantity())
}

func receiveBatch(t *testing.T, shop *apptest.Shop, p product.Product, quantity int64, expires time.Time) lot.Lot {
	t.Helper()
	sup := shop.Supplier(t, "Lacteos SA")
	_, err := shop.Purchases.RegisterPurchase(context.Background(), purchase.RegisterInput{
		SupplierID: sup.ID,
		ExpiresAt:  &expires,
		Lines:      []purchase.LineInput{{ProductID: p.ID, Quantity: quantity, UnitCost: money("2.00")}},
	})
	require.NoError(t, err)
	lots, err := shop.Lots.ListAvailableForProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotEmpty(t, lots)
	return lots[len(lots)-1]
}

func TestRegisterSale_BatchProduct(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	q := shop.Product(t, "Q", "1.50", "3.00", true)
	l := receiveBatch(t, shop, q, 20, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))

	s, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: q.ID, LotID: &l.ID, Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, l.Number, s.Lines[0].LotNumber)

	l, err = shop.Lots.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), l.Consumed)
	assert.Equal(t, int64(15), shop.ReloadProduct(t, q).Stock)

	_, err = shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: q.ID, LotID: &l.ID, Quantity: 16}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err), err)

	after, err := shop.Lots.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), after.Consumed)
	assert.Equal(t, int64(15), shop.ReloadProduct(t, q).Stock)
}

func TestRegisterSale_BatchProductWithoutLot(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	q := shop.Product(t, "Q", "1.50", "3.00", true)
	l := receiveBatch(t, shop, q, 20, apptest.Now.AddDate(0, 1, 0))

	_, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: q.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err), err)

	assert.Equal(t, int64(20), shop.ReloadProduct(t, q).Stock)
	l, err = shop.Lots.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Zero(t, l.Consumed)

	list, err := shop.Sales.List(ctx, sale.Filter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestRegisterSale_Boundaries(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "S")
	p := shop.Product(t, "P", "5.00", "8.00", false)
	shop.Receive(t, sup, p, 2)

	_, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{{ProductID: p.ID, Quantity: 3}}})
	assert.True(t, apperror.IsInsufficientStock(err), err)
	assert.Equal(t, int64(2), shop.ReloadProduct(t, p).Stock)

	_, err = shop.Sales.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{{ProductID: p.ID, Quantity: 2}}})
	require.NoError(t, err)
	assert.Zero(t, shop.ReloadProduct(t, p).Stock)
}

func TestRegisterSale_LinesAccumulatePerProduct(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "S")
	p := shop.Product(t, "P", "5.00", "8.00", false)
	shop.Receive(t, sup, p, 3)

	_, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{
		{ProductID: p.ID, Quantity: 2},
		{ProductID: p.ID, Quantity: 2},
	}})
	assert.True(t, apperror.IsInsufficientStock(err), err)
	assert.Equal(t, int64(3), shop.ReloadProduct(t, p).Stock)
}

func TestRegisterSale_FailingLineLeavesNoTrace(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "S")
	a := shop.Product(t, "A", "1.00", "2.00", false)
	b := shop.Product(t, "B", "1.00", "2.00", false)
	shop.Receive(t, sup, a, 5)
	shop.Receive(t, sup, b, 1)

	_, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{
		{ProductID: a.ID, Quantity: 4},
		{ProductID: b.ID, Quantity: 2},
	}})
	require.Error(t, err)

	assert.Equal(t, int64(5), shop.ReloadProduct(t, a).Stock)
	assert.Equal(t, int64(1), shop.ReloadProduct(t, b).Stock)

	// the failed sale did not consume a number
	s, err := shop.Sales.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{{ProductID: a.ID, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "V-2025-00001", s.Number)
}

type failingJournal struct{}

func (failingJournal) Record(context.Context, string, id.ID, audit.Action, any) error {
	return errors.New("journal unavailable")
}

func TestRegisterSale_RollsBackWritesOnLateFailure(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "S")
	q := shop.Product(t, "Q", "1.50", "3.00", true)
	p := shop.Product(t, "P", "1.00", "2.00", false)
	shop.Receive(t, sup, p, 5)
	l := receiveBatch(t, shop, q, 10, apptest.Now.AddDate(0, 1, 0))

	st := shop.Store
	svc := sale.NewService(st.Sales(), st.Products(), st.Lots(), failingJournal{},
		numerator.NewWithCounter(st.Sequences()), nil, st, &id.SequenceGenerator{}, shop.Clock)

	_, err := svc.RegisterSale(ctx, sale.RegisterInput{Lines: []sale.LineInput{
		{ProductID: p.ID, Quantity: 2},
		{ProductID: q.ID, LotID: &l.ID, Quantity: 3},
	}})
	require.ErrorContains(t, err, "journal unavailable")

	assert.Equal(t, int64(5), shop.ReloadProduct(t, p).Stock)
	assert.Equal(t, int64(10), shop.ReloadProduct(t, q).Stock)
	l, err = shop.Lots.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Zero(t, l.Consumed)
	list, err := shop.Sales.List(ctx, sale.Filter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestRegisterSale_Rejections(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "S")
	plain := shop.Product(t, "PLAIN", "1.00", "2.00", false)
	batch := shop.Product(t, "BATCH", "1.00", "2.00", true)
	other := shop.Product(t, "OTHER", "1.00", "2.00", true)
	shop.Receive(t, sup, plain, 5)
	otherLot := receiveBatch(t, shop, other, 5, apptest.Now.AddDate(0, 1, 0))
	receiveBatch(t, shop, batch, 5, apptest.Now.AddDate(0, 1, 0))
	inactive := shop.Product(t, "OLD", "1.00", "2.00", false)
	shop.Receive(t, sup, inactive, 5)
	_, err := shop.Products.Deactivate(ctx, inactive.ID)
	require.NoError(t, err)
	missing := id.New()

	tests := []struct {
		name  string
		input sale.RegisterInput
		check func(error) bool
	}{
		{"no lines", sale.RegisterInput{}, apperror.IsValidation},
		{"zero quantity", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: plain.ID}}}, apperror.IsValidation},
		{"unknown product", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: missing, Quantity: 1}}}, apperror.IsNotFound},
		{"inactive product", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: inactive.ID, Quantity: 1}}},
			func(err error) bool { return apperror.IsBusinessRule(err, "product_inactive") }},
		{"unknown lot", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: batch.ID, LotID: &missing, Quantity: 1}}}, apperror.IsNotFound},
		{"lot of another product", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: batch.ID, LotID: &otherLot.ID, Quantity: 1}}},
			func(err error) bool { return apperror.IsBusinessRule(err, "lot_product_mismatch") }},
		{"lot on plain product", sale.RegisterInput{Lines: []sale.LineInput{{ProductID: plain.ID, LotID: &otherLot.ID, Quantity: 1}}}, apperror.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shop.Sales.RegisterSale(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, tt.check(err), err)
		})
	}
}

func TestRegisterSale_ConcurrentLastUnit(t *testing.T) {
	shop := apptest.New(t)
	sup := shop.Supplier(t, "S")
	p := shop.Product(t, "P", "5.00", "8.00", false)
	shop.Receive(t, sup, p, 1)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shop.Sales.RegisterSale(context.Background(), sale.RegisterInput{
				Lines: []sale.LineInput{{ProductID: p.ID, Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, apperror.IsInsufficientStock(err), err)
	}
	assert.Zero(t, shop.ReloadProduct(t, p).Stock)
}

func TestList_RangeValidation(t *testing.T) {
	shop := apptest.New(t)
	_, err := shop.Sales.List(context.Background(), sale.Filter{From: apptest.Now, To: apptest.Now.Add(-time.Hour)})
	assert.True(t, apperror.IsValidation(err), err)
}
