package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineAmount(t *testing.T) {
	tests := []struct {
		unit string
		qty  int64
		want string
	}{
		{"8.00", 3, "24"},
		{"0.10", 3, "0.3"},
		// unit prices are cents: 1.333 is stored as 1.33
		{"1.333", 3, "3.99"},
		{"19.99", 0, "0"},
	}
	for _, tt := range tests {
		got := LineAmount(MustMoney(tt.unit), tt.qty)
		assert.True(t, got.Equal(MustMoney(tt.want)), "%s x %d = %s", tt.unit, tt.qty, got)
	}
}

func TestLineAmountRoundsHalfAwayFromZero(t *testing.T) {
	got := LineAmount(decimal.RequireFromString("1.335"), 3)
	assert.Equal(t, "4.01", got.StringFixed(MoneyScale))
}

func TestMustMoneyKeepsCentScale(t *testing.T) {
	assert.Equal(t, "3.34", MustMoney("3.335").StringFixed(MoneyScale))
	assert.Equal(t, int32(-2), MustMoney("3.335").Exponent())
}

func TestNewMoneyFromStringRounds(t *testing.T) {
	m, err := NewMoneyFromString("10.005")
	require.NoError(t, err)
	assert.Equal(t, "10.01", m.StringFixed(MoneyScale))

	_, err = NewMoneyFromString("ten")
	assert.Error(t, err)
}

func TestCentsRoundTrip(t *testing.T) {
	assert.True(t, NewMoneyFromCents(1).Equal(MustMoney("0.01")))
	assert.True(t, Sum(MustMoney("0.10"), MustMoney("0.20")).Equal(MustMoney("0.30")))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(MustMoney("9"), MustMoney("15")).Equal(MustMoney("60")))
	assert.True(t, Percent(MustMoney("3"), Zero()).IsZero())
}
