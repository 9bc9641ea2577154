package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Without GetNextNumberFunc it counts per prefix: V-2025-00001, V-2025-00002, ...
type MockGenerator struct {
	GetNextNumberFunc func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
	SetNextNumberFunc func(ctx context.Context, cfg Config, period time.Time, value int64) error

	mu       sync.Mutex
	counters map[string]int64
}

// GetNextNumber implements Generator.
func (m *MockGenerator) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.GetNextNumberFunc != nil {
		return m.GetNextNumberFunc(ctx, cfg, opts, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[cfg.Prefix]++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), m.counters[cfg.Prefix]), nil
}

// SetNextNumber implements Generator.
func (m *MockGenerator) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	if m.SetNextNumberFunc != nil {
		return m.SetNextNumberFunc(ctx, cfg, period, value)
	}
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
