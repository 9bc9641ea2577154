package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/clock"
)

type report struct {
	Total string `json:"total"`
	Count int    `json:"count"`
}

func TestLocal_GetSetExpiry(t *testing.T) {
	clk := clock.NewMock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	c := NewLocal(clk)
	ctx := context.Background()

	var got report
	hit, err := c.Get(ctx, "kiosko:report:profit", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "kiosko:report:profit", report{Total: "24.00", Count: 1}, time.Minute))
	hit, err = c.Get(ctx, "kiosko:report:profit", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, report{Total: "24.00", Count: 1}, got)

	clk.Advance(time.Minute)
	hit, err = c.Get(ctx, "kiosko:report:profit", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, c.Len())
}

func TestLocal_ZeroTTLIsNotStored(t *testing.T) {
	c := NewLocal(nil)
	require.NoError(t, c.Set(context.Background(), "k", 1, 0))
	assert.Zero(t, c.Len())
}

func TestListener_HandleDropsFamily(t *testing.T) {
	c := NewLocal(nil)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "kiosko:report:profit:a", 1, time.Hour))
	require.NoError(t, c.Set(ctx, "kiosko:report:top-products:10:a", 2, time.Hour))
	require.NoError(t, c.Set(ctx, "kiosko:alerts:snapshot", 3, time.Hour))

	l := NewListener(nil, c)
	l.Handle(ctx, "report")
	assert.Equal(t, 1, c.Len())

	var v int
	hit, err := c.Get(ctx, "kiosko:alerts:snapshot", &v)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, v)

	l.Handle(ctx, "")
	assert.Zero(t, c.Len())
}
