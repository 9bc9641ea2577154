package catalog_repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/infrastructure/storage/postgres/pgtest"
)

func TestProductAndSupplierRoundTrip(t *testing.T) {
	svcs := pgtest.Open(t)
	ctx := context.Background()

	sup, err := svcs.Suppliers.Create(ctx, supplier.Details{
		Name: pgtest.Unique("supplier"), Phone: "+1 555 0100", PaymentTerms: "30 days",
	})
	require.NoError(t, err)
	gotSup, err := svcs.Suppliers.GetByID(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, sup.Name, gotSup.Name)
	assert.Equal(t, "+1 555 0100", gotSup.Phone)
	assert.True(t, gotSup.Active)

	code := pgtest.Unique("coffee")
	p, err := svcs.Products.Create(ctx, product.CreateParams{
		Code: code, Name: "Coffee", Category: "pantry",
		PurchasePrice: types.MustMoney("3.20"), SalePrice: types.MustMoney("4.90"),
		ReorderThreshold: 3, SupplierID: &sup.ID,
	})
	require.NoError(t, err)

	got, err := svcs.Products.GetByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.PurchasePrice.Equal(types.MustMoney("3.20")))
	assert.True(t, got.SalePrice.Equal(types.MustMoney("4.90")))
	assert.Equal(t, int64(3), got.ReorderThreshold)
	assert.Equal(t, int64(0), got.Stock)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, sup.ID, *got.SupplierID)

	price := types.MustMoney("5.25")
	updated, err := svcs.Products.Update(ctx, p.ID, product.UpdateParams{SalePrice: &price})
	require.NoError(t, err)
	assert.Greater(t, updated.Version, got.Version)

	reloaded, err := svcs.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.SalePrice.Equal(price))
	assert.Equal(t, updated.Version, reloaded.Version)

	_, err = svcs.Products.Create(ctx, product.CreateParams{
		Code: code, Name: "Again",
		PurchasePrice: types.MustMoney("1"), SalePrice: types.MustMoney("1"),
	})
	assert.True(t, apperror.IsDuplicate(err), err)
}
