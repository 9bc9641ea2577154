// Package alerts collects what needs the owner's attention: expired and expiring lots,
// products to reorder and overdue supplier debt.
package alerts

import (
	"context"
	"fmt"
	"time"

	"kiosko/internal/core/clock"
	"kiosko/internal/core/tx"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/registers/debt"
	"kiosko/internal/domain/registers/lot"
	"kiosko/pkg/logger"
)

// CacheKey is where the latest snapshot is stored.
const CacheKey = "kiosko:alerts:snapshot"

// DefaultExpiringDays is the look-ahead window for expiring lots.
const DefaultExpiringDays = 30

// Snapshot is the alert state at GeneratedAt.
type Snapshot struct {
	ExpiredLots      []lot.Lot         `json:"expiredLots"`
	ExpiringLots     []lot.Lot         `json:"expiringLots"`
	LowStock         []product.Product `json:"lowStock"`
	OverdueSuppliers []debt.Summary    `json:"overdueSuppliers"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

// Empty reports a snapshot with nothing to act on.
func (s Snapshot) Empty() bool {
	return len(s.ExpiredLots) == 0 && len(s.ExpiringLots) == 0 &&
		len(s.LowStock) == 0 && len(s.OverdueSuppliers) == 0
}

// LotReader lists lots by expiry.
type LotReader interface {
	ListExpired(ctx context.Context) ([]lot.Lot, error)
	ListExpiringWithin(ctx context.Context, days int) ([]lot.Lot, error)
}

// StockReader lists products to reorder.
type StockReader interface {
	ListLowStock(ctx context.Context) ([]product.Product, error)
}

// DebtReader lists suppliers with overdue purchases.
type DebtReader interface {
	OverdueSuppliers(ctx context.Context) ([]debt.Summary, error)
}

// Service builds alert snapshots and keeps the latest one in the read cache.
type Service struct {
	lots         LotReader
	stock        StockReader
	debts        DebtReader
	cache        domain.ReadCache
	ttl          time.Duration
	clock        clock.Clock
	expiringDays int
	reader       tx.ReadOnlyManager
}

// Config tunes the alert service.
type Config struct {
	ExpiringDays int
	// CacheTTL bounds how long a stored snapshot is served by Latest.
	CacheTTL time.Duration
	// Reader, when set, runs the snapshot queries in one read-only transaction.
	Reader tx.ReadOnlyManager
}

// NewService creates the alert service. A nil cache makes Latest always compute.
func NewService(lots LotReader, stock StockReader, debts DebtReader, cache domain.ReadCache, clk clock.Clock, cfg Config) *Service {
	if cfg.ExpiringDays <= 0 {
		cfg.ExpiringDays = DefaultExpiringDays
	}
	return &Service{
		lots:         lots,
		stock:        stock,
		debts:        debts,
		cache:        cache,
		ttl:          cfg.CacheTTL,
		clock:        clk,
		expiringDays: cfg.ExpiringDays,
		reader:       cfg.Reader,
	}
}

// Snapshot computes the current alerts.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.reader == nil {
		return s.compute(ctx)
	}
	var snap Snapshot
	err := s.reader.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		snap, err = s.compute(ctx)
		return err
	})
	return snap, err
}

func (s *Service) compute(ctx context.Context) (Snapshot, error) {
	expired, err := s.lots.ListExpired(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list expired lots: %w", err)
	}
	expiring, err := s.lots.ListExpiringWithin(ctx, s.expiringDays)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list expiring lots: %w", err)
	}
	low, err := s.stock.ListLowStock(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list low stock: %w", err)
	}
	overdue, err := s.debts.OverdueSuppliers(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list overdue suppliers: %w", err)
	}
	return Snapshot{
		ExpiredLots:      expired,
		ExpiringLots:     expiring,
		LowStock:         low,
		OverdueSuppliers: overdue,
		GeneratedAt:      s.clock.Now(),
	}, nil
}

// Refresh computes a snapshot, logs its counts and stores it in the cache.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	logger.Info(ctx, "alerts refreshed",
		"expired_lots", len(snap.ExpiredLots),
		"expiring_lots", len(snap.ExpiringLots),
		"low_stock", len(snap.LowStock),
		"overdue_suppliers", len(snap.OverdueSuppliers))

	if s.cache != nil {
		if err := s.cache.Set(ctx, CacheKey, snap, s.ttl); err != nil {
			logger.Warn(ctx, "alert cache write failed", "error", err)
		}
	}
	return snap, nil
}

// Latest returns the cached snapshot, refreshing it on a miss.
func (s *Service) Latest(ctx context.Context) (Snapshot, error) {
	if s.cache != nil {
		var snap Snapshot
		hit, err := s.cache.Get(ctx, CacheKey, &snap)
		if err != nil {
			logger.Warn(ctx, "alert cache read failed", "error", err)
		}
		if hit {
			return snap, nil
		}
	}
	return s.Refresh(ctx)
}
