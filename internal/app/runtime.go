package app

import (
	"context"
	"fmt"

	"kiosko/internal/config"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/id"
	"kiosko/internal/core/numerator"
	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/cache"
	"kiosko/internal/infrastructure/storage/memory"
	"kiosko/internal/infrastructure/storage/postgres"
	"kiosko/pkg/logger"
)

// Runtime is the process-level composition: storage, cache and services opened
// from the configuration. Open it once at startup and Close it on shutdown.
type Runtime struct {
	Config   *config.Config
	Services *Services

	// Pool is nil on the in-memory store.
	Pool  *postgres.Pool
	Store *memory.Store
	Cache cache.Cache

	redis    *cache.Redis
	listener *cache.Listener
}

// OptionsFromConfig maps the configuration onto service options.
func OptionsFromConfig(cfg *config.Config, c cache.Cache) Options {
	jwt := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
	if cfg.Auth.AccessTokenTTL > 0 {
		jwt.AccessTokenTTL = cfg.Auth.AccessTokenTTL
	}
	return Options{
		Clock: clock.System{},
		IDs:   id.V7{},
		NumeratorOptions: &numerator.Options{
			Strategy: numerator.ParseStrategy(cfg.Shop.NumberingStrategy),
		},
		Cache:         c,
		CacheTTL:      cfg.Redis.TTL,
		ShelfLifeDays: cfg.Shop.ShelfLifeDays,
		ExpiringDays:  cfg.Shop.ExpiringWindowDays,
		JWT:           jwt,
	}
}

// Open connects the configured backends. An empty DATABASE_URL selects the
// in-memory store and an empty REDIS_ADDR a process-local cache.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	if cfg.Redis.Addr != "" {
		rt.redis = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rt.redis.Ping(ctx); err != nil {
			_ = rt.redis.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		rt.Cache = rt.redis
		logger.Info(ctx, "redis cache connected", "addr", cfg.Redis.Addr)
	} else {
		rt.Cache = cache.NewLocal(clock.System{})
	}

	opts := OptionsFromConfig(cfg, rt.Cache)

	if cfg.Database.URL == "" {
		svcs, st, err := NewMemory(opts)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Services, rt.Store = svcs, st
		logger.Warn(ctx, "DATABASE_URL not set, running on the in-memory store")
		return rt, nil
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Pool = pool

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			rt.Close()
			return nil, err
		}
	}

	svcs, _, err := NewPostgres(pool, opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Services = svcs

	rt.listener = cache.NewListener(pool.Pool, rt.Cache)
	rt.listener.Start(context.WithoutCancel(ctx))
	return rt, nil
}

// Close releases everything Open acquired. It is safe on a partially opened runtime.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	if r.listener != nil {
		r.listener.Stop()
	}
	if r.Pool != nil {
		r.Pool.Close()
	}
	if r.redis != nil {
		if err := r.redis.Close(); err != nil {
			logger.Warn(context.Background(), "redis close failed", "error", err)
		}
	}
}
