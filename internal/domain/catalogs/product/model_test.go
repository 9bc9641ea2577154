package product

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

func TestNew_Validation(t *testing.T) {
	base := CreateParams{Code: "A1", Name: "Milk", PurchasePrice: types.MustMoney("1.00"), SalePrice: types.MustMoney("1.50")}

	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"blank code", func(p *CreateParams) { p.Code = "  " }},
		{"blank name", func(p *CreateParams) { p.Name = "" }},
		{"negative cost", func(p *CreateParams) { p.PurchasePrice = types.MustMoney("-1") }},
		{"price under cost", func(p *CreateParams) { p.SalePrice = types.MustMoney("0.99") }},
		{"negative threshold", func(p *CreateParams) { p.ReorderThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			_, err := New(id.New(), p, now)
			assert.True(t, apperror.IsValidation(err), err)
		})
	}

	p, err := New(id.New(), base, now)
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.Zero(t, p.Stock)
	assert.Equal(t, "50.00", p.Margin().StringFixed(2))
}

func TestAdjustStock(t *testing.T) {
	p := Product{Name: "Milk", Stock: 3}

	p, err := p.AdjustStock(-3, now)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	_, err = p.AdjustStock(-1, now)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestRefreshPurchaseCost(t *testing.T) {
	p := Product{Name: "Milk", PurchasePrice: types.MustMoney("1"), SalePrice: types.MustMoney("2")}

	p, err := p.RefreshPurchaseCost(types.MustMoney("2.00"), now)
	require.NoError(t, err)
	assert.Equal(t, "2.00", p.PurchasePrice.StringFixed(2))
	assert.True(t, p.UnitProfit().IsZero())

	_, err = p.RefreshPurchaseCost(types.MustMoney("2.01"), now)
	assert.True(t, apperror.IsBusinessRule(err, "sale_price_below_cost"))
}

func TestReorderThreshold(t *testing.T) {
	p := Product{Stock: 2, ReorderThreshold: 2}
	assert.True(t, p.IsBelowReorderThreshold())
	p.Stock = 3
	assert.False(t, p.IsBelowReorderThreshold())
	assert.True(t, p.HasStock(3))
	assert.False(t, p.HasStock(4))
}
