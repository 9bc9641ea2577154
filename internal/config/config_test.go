package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 30, cfg.Shop.ShelfLifeDays)
	assert.Equal(t, 30, cfg.Shop.ExpiringWindowDays)
	assert.Equal(t, "strict", cfg.Shop.NumberingStrategy)
	assert.Equal(t, 12*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFromEnvFile(t *testing.T) {
	for _, key := range []string{"APP_PORT", "LOT_SHELF_LIFE_DAYS", "CACHE_TTL", "DB_MIGRATE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("JWT_SECRET", "s3cret")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nLOT_SHELF_LIFE_DAYS=45\nCACHE_TTL=90s\nDB_MIGRATE=false\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 45, cfg.Shop.ShelfLifeDays)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.False(t, cfg.Database.Migrate)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"shelf life", func(c *Config) { c.Shop.ShelfLifeDays = 0 }, "LOT_SHELF_LIFE_DAYS"},
		{"window", func(c *Config) { c.Shop.ExpiringWindowDays = -1 }, "EXPIRING_WINDOW_DAYS"},
		{"strategy", func(c *Config) { c.Shop.NumberingStrategy = "random" }, "NUMBERING_STRATEGY"},
		{"timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				App:  AppConfig{Timezone: "UTC"},
				HTTP: HTTPConfig{Port: "8080"},
				Auth: AuthConfig{JWTSecret: "x"},
				Shop: ShopConfig{ShelfLifeDays: 30, ExpiringWindowDays: 30, NumberingStrategy: "strict"},
			}
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
