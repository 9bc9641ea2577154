package lot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/product"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func tracked(t *testing.T, track bool) product.Product {
	t.Helper()
	p, err := product.New(id.New(), product.CreateParams{
		Code: "Q", Name: "Yogurt",
		PurchasePrice: types.MustMoney("1"), SalePrice: types.MustMoney("2"),
		TrackBatches: track,
	}, now)
	require.NoError(t, err)
	return p
}

func TestOpen(t *testing.T) {
	l, err := Open(id.New(), tracked(t, true), OpenParams{Number: " L1 ", Quantity: 20, ExpiresAt: now.AddDate(0, 0, 3)}, now)
	require.NoError(t, err)
	assert.Equal(t, "L1", l.Number)
	assert.Equal(t, int64(20), l.Available())
	assert.Equal(t, 3, l.DaysUntilExpiry(now))

	_, err = Open(id.New(), tracked(t, false), OpenParams{Number: "L1", Quantity: 1, ExpiresAt: now}, now)
	assert.True(t, apperror.IsBusinessRule(err, "batch_tracking_disabled"))

	_, err = Open(id.New(), tracked(t, true), OpenParams{Number: "L1", Quantity: 0, ExpiresAt: now}, now)
	assert.True(t, apperror.IsValidation(err))

	_, err = Open(id.New(), tracked(t, true), OpenParams{Number: "L1", Quantity: 1}, now)
	assert.True(t, apperror.IsValidation(err))
}

func TestConsume(t *testing.T) {
	l, err := Open(id.New(), tracked(t, true), OpenParams{Number: "L1", Quantity: 5, ExpiresAt: now}, now)
	require.NoError(t, err)

	l, err = l.Consume(5, now)
	require.NoError(t, err)
	assert.Zero(t, l.Available())
	assert.Equal(t, int64(5), l.Quantity)

	_, err = l.Consume(1, now)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestExpiryWindows(t *testing.T) {
	l := Lot{ExpiresAt: now.AddDate(0, 0, 7)}
	assert.False(t, l.IsExpired(now))
	assert.True(t, l.IsExpiringWithin(now, 7))
	assert.False(t, l.IsExpiringWithin(now, 6))

	past := Lot{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, past.IsExpired(now))
	assert.False(t, past.IsExpiringWithin(now, 30))
	assert.Equal(t, 0, past.DaysUntilExpiry(now))
	assert.Equal(t, -1, Lot{ExpiresAt: now.AddDate(0, 0, -1)}.DaysUntilExpiry(now))
}
