package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"kiosko/internal/core/clock"
)

type entry struct {
	payload []byte
	expires time.Time
}

// Local is an in-process cache for a single server without Redis.
// Values are stored as JSON so readers never share memory with writers.
type Local struct {
	mu      sync.RWMutex
	entries map[string]entry
	clock   clock.Clock
}

// NewLocal creates an empty local cache.
func NewLocal(clk clock.Clock) *Local {
	if clk == nil {
		clk = clock.System{}
	}
	return &Local{entries: make(map[string]entry), clock: clk}
}

func (c *Local) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !c.clock.Now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.payload, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Local) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, expires: c.clock.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Local) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len counts stored entries, expired ones included.
func (c *Local) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
