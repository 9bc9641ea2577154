package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/config"
	"kiosko/internal/core/numerator"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/infrastructure/cache"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Env: "test", Timezone: "UTC"},
		HTTP:  config.HTTPConfig{Port: "0"},
		Redis: config.RedisConfig{TTL: time.Minute},
		Auth:  config.AuthConfig{JWTSecret: "secret", AccessTokenTTL: time.Hour},
		Shop: config.ShopConfig{
			ShelfLifeDays:      10,
			ExpiringWindowDays: 5,
			AlertsCron:         "0 7 * * *",
			NumberingStrategy:  "cached",
		},
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(memoryConfig(), cache.Noop{})

	assert.Equal(t, numerator.StrategyCached, opts.NumeratorOptions.Strategy)
	assert.Equal(t, time.Hour, opts.JWT.AccessTokenTTL)
	assert.Equal(t, "secret", opts.JWT.Secret)
	assert.Equal(t, 10, opts.ShelfLifeDays)
	assert.Equal(t, 5, opts.ExpiringDays)
	assert.Equal(t, time.Minute, opts.CacheTTL)
}

func TestOpenWithoutDatabaseUsesMemory(t *testing.T) {
	rt, err := Open(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Pool)
	assert.NotNil(t, rt.Store)
	assert.IsType(t, &cache.Local{}, rt.Cache)

	_, err = rt.Services.Suppliers.List(context.Background(), supplier.Filter{})
	require.NoError(t, err)
}
