package reports

import (
	"context"
	"fmt"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/clock"
	"kiosko/internal/core/types"
	"kiosko/internal/domain"
	"kiosko/pkg/logger"
)

const (
	// DefaultTopLimit is the size of the top products report when none is given.
	DefaultTopLimit = 10
	maxTopLimit     = 100
)

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache domain.ReadCache
	ttl   time.Duration
	clock clock.Clock
}

// NewService creates a new reports service. A nil cache disables caching.
func NewService(repo Repository, cache domain.ReadCache, ttl time.Duration, clk clock.Clock) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, clock: clk}
}

// Profit reports sales, cost, gross profit and supplier payments between from and to,
// both days inclusive.
func (s *Service) Profit(ctx context.Context, from, to time.Time) (ProfitReport, error) {
	r, err := s.dayRange(from, to)
	if err != nil {
		return ProfitReport{}, err
	}

	var report ProfitReport
	err = s.cached(ctx, "profit", r, &report, func() error {
		totals, err := s.repo.SalesTotals(ctx, r.From, r.To)
		if err != nil {
			return fmt.Errorf("sales totals: %w", err)
		}
		payments, err := s.repo.PaymentsTotal(ctx, r.From, r.To)
		if err != nil {
			return fmt.Errorf("payments total: %w", err)
		}
		cost := totals.Total.Sub(totals.Profit)
		report = ProfitReport{
			Range:            r,
			SaleCount:        totals.SaleCount,
			SalesTotal:       totals.Total,
			CostTotal:        cost,
			ProfitTotal:      totals.Profit,
			Margin:           types.Percent(totals.Profit, cost),
			SupplierPayments: payments,
			NetProfit:        totals.Profit.Sub(payments),
		}
		return nil
	})
	return report, err
}

// SalesByDay reports daily sales between from and to, both days inclusive.
func (s *Service) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	r, err := s.dayRange(from, to)
	if err != nil {
		return nil, err
	}

	var days []DailySales
	err = s.cached(ctx, "sales-by-day", r, &days, func() error {
		days, err = s.repo.SalesByDay(ctx, r.From, r.To, r.From.Location())
		return err
	})
	return days, err
}

// TopProducts ranks the best sellers between from and to, both days inclusive.
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	r, err := s.dayRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	var top []ProductSales
	err = s.cached(ctx, fmt.Sprintf("top-products:%d", limit), r, &top, func() error {
		top, err = s.repo.TopProducts(ctx, r.From, r.To, limit)
		return err
	})
	return top, err
}

// dayRange expands [from, to] to whole days. Zero values default to today.
func (s *Service) dayRange(from, to time.Time) (Range, error) {
	now := s.clock.Now()
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = now
	}
	if to.Before(from) {
		return Range{}, apperror.NewValidation("date range end is before its start").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}
	return Range{
		From: clock.StartOfDay(from),
		To:   clock.StartOfDay(to).AddDate(0, 0, 1),
	}, nil
}

// cached serves dst from the read cache or fills it with compute and stores it.
func (s *Service) cached(ctx context.Context, name string, r Range, dst any, compute func() error) error {
	if s.cache == nil {
		return compute()
	}
	key := fmt.Sprintf("kiosko:report:%s:%s:%s", name, r.From.Format(time.RFC3339), r.To.Format(time.RFC3339))

	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		logger.Warn(ctx, "report cache read failed", "key", key, "error", err)
	}
	if hit {
		return nil
	}
	if err := compute(); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, dst, s.ttl); err != nil {
		logger.Warn(ctx, "report cache write failed", "key", key, "error", err)
	}
	return nil
}
