package purchase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func creditPurchase(t *testing.T, total string) Purchase {
	t.Helper()
	p, err := New(id.New(), Header{Number: "C-2025-00001", PaymentTerms: TermsCredit, SupplierID: id.New()},
		[]Line{{ID: id.New(), ProductID: id.New(), Quantity: 1, UnitCost: types.MustMoney(total)}}, now)
	require.NoError(t, err)
	return p
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	p := creditPurchase(t, "1000.00")

	p, err := p.ApplyPayment(types.MustMoney("400.00"), now)
	require.NoError(t, err)
	assert.False(t, p.Paid)
	assert.Equal(t, "600.00", p.OutstandingBalance().StringFixed(2))

	p, err = p.ApplyPayment(types.MustMoney("600.00"), now)
	require.NoError(t, err)
	assert.True(t, p.Paid)
	assert.True(t, p.OutstandingBalance().IsZero())

	_, err = p.ApplyPayment(types.MustMoney("0.01"), now)
	assert.True(t, apperror.IsBusinessRule(err, "purchase_already_paid"), err)
}

func TestApplyPayment_OneCentOver(t *testing.T) {
	p := creditPurchase(t, "10.00")
	_, err := p.ApplyPayment(types.MustMoney("10.01"), now)
	assert.True(t, apperror.IsBusinessRule(err, "overpayment"), err)
}

func TestApplyPayment_NonPositive(t *testing.T) {
	p := creditPurchase(t, "10.00")
	_, err := p.ApplyPayment(types.Zero(), now)
	assert.True(t, apperror.IsValidation(err))
}

func TestNew_CashDropsDueDate(t *testing.T) {
	due := now.AddDate(0, 0, 5)
	p, err := New(id.New(), Header{PaymentTerms: TermsCash, DueDate: &due},
		[]Line{{Quantity: 3, UnitCost: types.MustMoney("3.335")}}, now)
	require.NoError(t, err)
	assert.Nil(t, p.DueDate)
	assert.True(t, p.Paid)
	// 3.335 is held as 3.34 before the line amount is taken
	assert.Equal(t, "3.34", p.Lines[0].UnitCost.StringFixed(2))
	assert.Equal(t, "10.02", p.Total.StringFixed(2))
	assert.True(t, p.AmountPaid.Equal(p.Total))
	assert.Equal(t, now, p.PurchasedAt)
}

func TestIsOverdue_WithoutDueDate(t *testing.T) {
	p := creditPurchase(t, "5.00")
	assert.False(t, p.IsOverdue(now.AddDate(10, 0, 0)))
}

func TestParsePaymentTerms(t *testing.T) {
	terms, err := ParsePaymentTerms(" Credit ")
	require.NoError(t, err)
	assert.Equal(t, TermsCredit, terms)

	terms, err = ParsePaymentTerms("")
	require.NoError(t, err)
	assert.Equal(t, TermsCash, terms)

	_, err = ParsePaymentTerms("iou")
	assert.True(t, apperror.IsValidation(err))
}
