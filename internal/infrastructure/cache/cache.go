// Package cache provides the read caches behind reports and alerts.
package cache

import (
	"context"
	"time"

	"kiosko/internal/domain"
)

// Cache is a read cache that can drop a family of keys at once.
type Cache interface {
	domain.ReadCache
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(_ context.Context, _ string, _ any) (bool, error) { return false, nil }
func (Noop) Set(_ context.Context, _ string, _ any, _ time.Duration) error { return nil }
func (Noop) InvalidatePrefix(_ context.Context, _ string) error { return nil }

var (
	_ Cache = Noop{}
	_ Cache = (*Local)(nil)
	_ Cache = (*Redis)(nil)
)
