package document_repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/infrastructure/storage/postgres/pgtest"
)

func TestPurchaseAndSaleRoundTrip(t *testing.T) {
	svcs := pgtest.Open(t)
	ctx := context.Background()

	sup, err := svcs.Suppliers.Create(ctx, supplier.Details{Name: pgtest.Unique("supplier")})
	require.NoError(t, err)
	newProduct := func(code string, batches bool) product.Product {
		p, err := svcs.Products.Create(ctx, product.CreateParams{
			Code: pgtest.Unique(code), Name: code,
			PurchasePrice: types.MustMoney("1.00"), SalePrice: types.MustMoney("1.75"),
			TrackBatches: batches, SupplierID: &sup.ID,
		})
		require.NoError(t, err)
		return p
	}
	milk := newProduct("milk", true)
	soap := newProduct("soap", false)

	expires := time.Now().Add(20 * 24 * time.Hour).Truncate(time.Second)
	due := time.Now().AddDate(0, 0, 15).Truncate(time.Second)
	invoice := pgtest.Unique("inv")
	pur, err := svcs.Purchases.RegisterPurchase(ctx, purchase.RegisterInput{
		SupplierID: sup.ID,
		Lines: []purchase.LineInput{
			{ProductID: milk.ID, Quantity: 6, UnitCost: types.MustMoney("0.85"), ExpiresAt: &expires},
			{ProductID: soap.ID, Quantity: 4, UnitCost: types.MustMoney("1.10")},
		},
		InvoiceNumber: &invoice,
		PaymentTerms:  purchase.TermsCredit,
		DueDate:       &due,
	})
	require.NoError(t, err)

	gotPur, err := svcs.Purchases.GetByID(ctx, pur.ID)
	require.NoError(t, err)
	assert.Equal(t, pur.Number, gotPur.Number)
	assert.Equal(t, invoice, *gotPur.InvoiceNumber)
	assert.True(t, gotPur.Total.Equal(types.MustMoney("9.50")), gotPur.Total.String())
	assert.False(t, gotPur.Paid)
	assert.True(t, gotPur.AmountPaid.IsZero())
	require.NotNil(t, gotPur.DueDate)
	assert.True(t, due.Equal(*gotPur.DueDate))
	require.Len(t, gotPur.Lines, 2)
	assert.Equal(t, 1, gotPur.Lines[0].LineNo)
	assert.True(t, gotPur.Lines[0].UnitCost.Equal(types.MustMoney("0.85")))
	assert.True(t, gotPur.Lines[0].Subtotal.Equal(types.MustMoney("5.10")))
	require.NotNil(t, gotPur.Lines[0].LotID)
	assert.Nil(t, gotPur.Lines[1].LotID)

	s, err := svcs.Sales.RegisterSale(ctx, sale.RegisterInput{
		Lines: []sale.LineInput{
			{ProductID: milk.ID, LotID: gotPur.Lines[0].LotID, Quantity: 2},
			{ProductID: soap.ID, Quantity: 3},
		},
	})
	require.NoError(t, err)

	gotSale, err := svcs.Sales.GetByNumber(ctx, s.Number)
	require.NoError(t, err)
	assert.Equal(t, s.ID, gotSale.ID)
	assert.Equal(t, "cash", gotSale.PaymentMethod)
	assert.True(t, gotSale.Total.Equal(types.MustMoney("8.75")), gotSale.Total.String())
	// costs were refreshed by the purchase: 2 × (1.75 − 0.85) + 3 × (1.75 − 1.10)
	assert.True(t, gotSale.Profit.Equal(types.MustMoney("3.75")), gotSale.Profit.String())
	require.Len(t, gotSale.Lines, 2)
	assert.Equal(t, milk.Code, gotSale.Lines[0].ProductCode)
	assert.Equal(t, *gotPur.Lines[0].LotID, *gotSale.Lines[0].LotID)
	assert.NotEmpty(t, gotSale.Lines[0].LotNumber)
	assert.Nil(t, gotSale.Lines[1].LotID)
	assert.True(t, gotSale.Lines[1].UnitCost.Equal(types.MustMoney("1.10")))
}
