package domain

import (
	"context"
	"time"
)

// ReadCache stores derived read models such as reports and alert snapshots.
// A miss returns false with a nil error.
type ReadCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
