package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/app/apptest"
	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/audit"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/domain/documents/purchase"
)

func creditPurchase(t *testing.T, shop *apptest.Shop, sup supplier.Supplier, total string) purchase.Purchase {
	t.Helper()
	p := shop.Product(t, "P-"+sup.Name, "1.00", "5000.00", false)
	due := shop.Clock.Now().AddDate(0, 0, 15)
	pur, err := shop.Purchases.RegisterPurchase(context.Background(), purchase.RegisterInput{
		SupplierID:   sup.ID,
		PaymentTerms: purchase.TermsCredit,
		DueDate:      &due,
		Lines:        []purchase.LineInput{{ProductID: p.ID, Quantity: 1, UnitCost: types.MustMoney(total)}},
	})
	require.NoError(t, err)
	return pur
}

func TestApplyPayment_SettlesCreditPurchase(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "R")
	pur := creditPurchase(t, shop, sup, "1000.00")

	pay, err := shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: sup.ID,
		PurchaseID: &pur.ID,
		Amount:     types.MustMoney("400.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cash", pay.Method)
	assert.True(t, pay.IsAssigned())

	pur, err = shop.Purchases.GetByID(ctx, pur.ID)
	require.NoError(t, err)
	assert.False(t, pur.Paid)
	assert.Equal(t, "600.00", pur.OutstandingBalance().StringFixed(2))

	_, err = shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: sup.ID,
		PurchaseID: &pur.ID,
		Amount:     types.MustMoney("600.00"),
		Method:     "transfer",
	})
	require.NoError(t, err)

	pur, err = shop.Purchases.GetByID(ctx, pur.ID)
	require.NoError(t, err)
	assert.True(t, pur.Paid)
	assert.True(t, pur.OutstandingBalance().IsZero())
	assert.Len(t, pur.Lines, 1, "lines survive a header update")

	_, err = shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: sup.ID,
		PurchaseID: &pur.ID,
		Amount:     types.MustMoney("0.01"),
	})
	assert.True(t, apperror.IsBusinessRule(err, "purchase_already_paid"), err)

	list, err := shop.Payments.List(ctx, payment.Filter{PurchaseID: &pur.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)

	history, err := shop.Audit.History(ctx, audit.EntityPayment, pay.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, audit.ActionCreate, history[0].Action)
}

func TestApplyPayment_OverpaymentLeavesBalance(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "R")
	pur := creditPurchase(t, shop, sup, "100.00")

	_, err := shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: sup.ID,
		PurchaseID: &pur.ID,
		Amount:     types.MustMoney("100.01"),
	})
	assert.True(t, apperror.IsBusinessRule(err, "overpayment"), err)

	pur, err = shop.Purchases.GetByID(ctx, pur.ID)
	require.NoError(t, err)
	assert.True(t, pur.AmountPaid.IsZero())

	list, err := shop.Payments.List(ctx, payment.Filter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestApplyPayment_SupplierMismatch(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	owner := shop.Supplier(t, "Owner")
	other := shop.Supplier(t, "Other")
	pur := creditPurchase(t, shop, owner, "50.00")

	_, err := shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: other.ID,
		PurchaseID: &pur.ID,
		Amount:     types.MustMoney("10.00"),
	})
	assert.True(t, apperror.IsBusinessRule(err, "purchase_supplier_mismatch"), err)
}

func TestApplyPayment_Unassigned(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "R")
	pur := creditPurchase(t, shop, sup, "80.00")

	pay, err := shop.Payments.ApplyPayment(ctx, payment.ApplyInput{
		SupplierID: sup.ID,
		Amount:     types.MustMoney("30.00"),
		Note:       "advance",
	})
	require.NoError(t, err)
	assert.False(t, pay.IsAssigned())
	assert.Equal(t, apptest.Now, pay.PaidAt)

	pur, err = shop.Purchases.GetByID(ctx, pur.ID)
	require.NoError(t, err)
	assert.True(t, pur.AmountPaid.IsZero(), "unassigned payments do not touch purchases")

	got, err := shop.Payments.GetByID(ctx, pay.ID)
	require.NoError(t, err)
	assert.Equal(t, "advance", got.Note)
}

func TestApplyPayment_Rejections(t *testing.T) {
	shop := apptest.New(t)
	ctx := context.Background()
	sup := shop.Supplier(t, "R")
	missing := id.New()

	tests := []struct {
		name  string
		input payment.ApplyInput
		check func(error) bool
	}{
		{"zero amount", payment.ApplyInput{SupplierID: sup.ID, Amount: types.Zero()}, apperror.IsValidation},
		{"negative amount", payment.ApplyInput{SupplierID: sup.ID, Amount: types.MustMoney("-5")}, apperror.IsValidation},
		{"unknown supplier", payment.ApplyInput{SupplierID: id.New(), Amount: types.MustMoney("5")}, apperror.IsNotFound},
		{"unknown purchase", payment.ApplyInput{SupplierID: sup.ID, PurchaseID: &missing, Amount: types.MustMoney("5")}, apperror.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shop.Payments.ApplyPayment(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, tt.check(err), err)
		})
	}
}
