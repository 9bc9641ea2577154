// Package numerator provides document auto-numbering backed by the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	core "kiosko/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierFunc resolves the querier for ctx, typically TxManager.GetQuerier so that
// strict numbers are reserved inside the caller's transaction.
type QuerierFunc func(ctx context.Context) Querier

type cachedRange struct {
	current int64
	max     int64
}

// Counter stores the sequence values behind the numbers.
type Counter interface {
	// Reserve bumps key by n and returns the new last value.
	Reserve(ctx context.Context, key string, n int64) (int64, error)
	// Reset sets key to value.
	Reset(ctx context.Context, key string, value int64) error
}

// Service provides document numbering functionality.
type Service struct {
	counter Counter

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator bound to a fixed querier.
func New(querier Querier) *Service {
	return NewWithQuerierFunc(func(context.Context) Querier { return querier })
}

// NewWithQuerierFunc creates a numerator that resolves its querier per call.
func NewWithQuerierFunc(fn QuerierFunc) *Service {
	return NewWithCounter(sqlCounter{querier: fn})
}

// NewWithCounter creates a numerator over any Counter.
func NewWithCounter(c Counter) *Service {
	return &Service{
		counter: c,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YEAR-XXXXX (e.g., V-2025-00001)
func (s *Service) GetNextNumber(ctx context.Context, cfg core.Config, opts *core.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = core.DefaultOptions()
	}

	key := buildKey(cfg, period)
	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case core.StrategyCached:
		num, err = s.getNextCached(ctx, key, opts)
	default:
		num, err = s.reserve(ctx, key, 1)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

func (s *Service) reserve(ctx context.Context, key string, n int64) (int64, error) {
	last, err := s.counter.Reserve(ctx, key, n)
	if err != nil {
		return 0, fmt.Errorf("reserve sequence %s: %w", key, err)
	}
	return last, nil
}

// sqlCounter keeps sequences in the sys_sequences table.
type sqlCounter struct {
	querier QuerierFunc
}

func (c sqlCounter) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	var last int64
	err := c.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
		RETURNING current_val
	`, key, n).Scan(&last)
	return last, err
}

func (c sqlCounter) Reset(ctx context.Context, key string, value int64) error {
	var result int64
	return c.querier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)
}

// getNextCached hands out numbers from memory, reserving a new range when exhausted.
func (s *Service) getNextCached(ctx context.Context, key string, opts *core.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}
		last, err := s.reserve(ctx, key, size)
		if err != nil {
			return 0, err
		}
		// reserved range is (last-size, last]
		rng.current = last - size
		rng.max = last
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the counter so the next number is value+1.
func (s *Service) SetNextNumber(ctx context.Context, cfg core.Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)
	err := s.counter.Reset(ctx, key, value)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return err
}

var _ core.Generator = (*Service)(nil)

// buildKey creates the sequence key based on config and period.
func buildKey(cfg core.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func formatNumber(cfg core.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}
