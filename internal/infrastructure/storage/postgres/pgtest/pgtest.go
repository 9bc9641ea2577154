// Package pgtest opens the services over a real PostgreSQL database for
// repository tests. Tests are skipped unless TEST_DATABASE_URL is set.
package pgtest

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kiosko/internal/app"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/cache"
	"kiosko/internal/infrastructure/storage/postgres"
)

// EnvURL names the variable holding the test database URL.
const EnvURL = "TEST_DATABASE_URL"

// Open applies the schema and returns services backed by the test database.
// Rows are not cleaned up; callers use Unique for natural keys.
func Open(t testing.TB) *app.Services {
	t.Helper()
	dsn := os.Getenv(EnvURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.MinConns = 0
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	svcs, _, err := app.NewPostgres(pool, app.Options{
		Clock: clock.System{},
		IDs:   id.V7{},
		Cache: cache.Noop{},
		JWT:   auth.DefaultJWTConfig("pgtest-secret"),
	})
	require.NoError(t, err)
	return svcs
}

// Unique returns prefix with a random suffix, upper-cased like product codes.
func Unique(prefix string) string {
	return strings.ToUpper(prefix + "-" + id.New().String()[24:])
}
