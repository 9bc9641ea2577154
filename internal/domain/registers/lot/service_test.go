package lot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/app/apptest"
	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
)

func receiveExpiring(t *testing.T, shop *apptest.Shop, code string, qty int64, expires time.Time) id.ID {
	t.Helper()
	sup := shop.Supplier(t, "Sup "+code)
	p := shop.Product(t, code, "1.00", "2.00", true)
	_, err := shop.Purchases.RegisterPurchase(context.Background(), purchase.RegisterInput{
		SupplierID: sup.ID,
		Lines:      []purchase.LineInput{{ProductID: p.ID, Quantity: qty, UnitCost: types.MustMoney("1.00"), ExpiresAt: &expires}},
	})
	require.NoError(t, err)
	return p.ID
}

func TestListExpiredAndExpiring(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	now := apptest.Now

	receiveExpiring(t, shop, "OLD", 3, now.Add(-time.Hour))
	receiveExpiring(t, shop, "SOON", 3, now.AddDate(0, 0, 2))
	receiveExpiring(t, shop, "EDGE", 3, now.AddDate(0, 0, 7))
	receiveExpiring(t, shop, "LATER", 3, now.AddDate(0, 1, 0))

	expired, err := shop.Lots.ListExpired(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "LOT-OLD-2025-00001", expired[0].Number)

	expiring, err := shop.Lots.ListExpiringWithin(ctx, 7)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	assert.Equal(t, "LOT-SOON-2025-00001", expiring[0].Number)
	assert.Equal(t, "LOT-EDGE-2025-00001", expiring[1].Number, "upper bound is inclusive")

	_, err = shop.Lots.ListExpiringWithin(ctx, -1)
	assert.True(t, apperror.IsValidation(err))
}

func TestListExpired_SkipsEmptyLots(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	productID := receiveExpiring(t, shop, "GONE", 2, apptest.Now.Add(time.Hour))

	lots, err := shop.Lots.ListAvailableForProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	_, err = shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: productID, LotID: &lots[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)

	shop.Clock.Advance(2 * time.Hour)
	expired, err := shop.Lots.ListExpired(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}

func TestDelete(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	productID := receiveExpiring(t, shop, "DEL", 5, apptest.Now.AddDate(0, 0, 10))

	lots, err := shop.Lots.ListAvailableForProduct(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, shop.Lots.Delete(ctx, lots[0].ID))

	p, err := shop.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	_, err = shop.Lots.GetByID(ctx, lots[0].ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_ConsumedLotIsKept(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	productID := receiveExpiring(t, shop, "KEEP", 5, apptest.Now.AddDate(0, 0, 10))

	lots, err := shop.Lots.ListAvailableForProduct(ctx, productID)
	require.NoError(t, err)
	_, err = shop.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{{ProductID: productID, LotID: &lots[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = shop.Lots.Delete(ctx, lots[0].ID)
	assert.True(t, apperror.IsBusinessRule(err, "lot_consumed"), err)

	p, err := shop.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.Stock)
}
