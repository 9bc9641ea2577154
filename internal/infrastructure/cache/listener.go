package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"kiosko/pkg/logger"
)

// ChangeChannel is the PostgreSQL NOTIFY channel raised by the schema triggers.
// The payload names the key family to drop: "report" or "alerts".
const ChangeChannel = "kiosko_changed"

// KeyPrefix is shared by every cached key.
const KeyPrefix = "kiosko:"

// Listener drops cached reports and alerts when the database announces a change,
// so several server instances sharing a database see fresh reads before the TTL expires.
type Listener struct {
	pool  *pgxpool.Pool
	cache Cache

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewListener creates a listener over pool invalidating c.
func NewListener(pool *pgxpool.Pool, c Cache) *Listener {
	return &Listener{pool: pool, cache: c}
}

// Start begins listening in the background.
func (l *Listener) Start(ctx context.Context) {
	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.listenLoop()
	logger.Info(l.ctx, "cache invalidation listener started", "channel", ChangeChannel)
}

// Stop ends the listener and waits for it.
func (l *Listener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	cancel()
	l.wg.Wait()
	logger.Info(context.Background(), "cache invalidation listener stopped")
}

func (l *Listener) listenLoop() {
	defer l.wg.Done()

	for l.ctx.Err() == nil {
		conn, err := l.pool.Acquire(l.ctx)
		if err != nil {
			if l.ctx.Err() == nil {
				logger.Error(l.ctx, "failed to acquire connection for LISTEN", "error", err)
				l.sleep(time.Second)
			}
			continue
		}

		if _, err := conn.Exec(l.ctx, "LISTEN "+ChangeChannel); err != nil {
			logger.Error(l.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			l.sleep(time.Second)
			continue
		}

		l.waitForNotifications(conn)
		conn.Release()
	}
}

func (l *Listener) waitForNotifications(conn *pgxpool.Conn) {
	for l.ctx.Err() == nil {
		// bounded wait so a broken connection is noticed
		ctx, cancel := context.WithTimeout(l.ctx, 30*time.Second)
		n, err := conn.Conn().WaitForNotification(ctx)
		cancel()
		if err != nil {
			if l.ctx.Err() != nil || ctx.Err() != nil {
				continue
			}
			logger.Warn(l.ctx, "notification wait failed, reconnecting", "error", err)
			return
		}
		l.Handle(l.ctx, n.Payload)
	}
}

// Handle drops the keys of the family named by payload. An empty payload drops everything.
func (l *Listener) Handle(ctx context.Context, payload string) {
	prefix := KeyPrefix
	if family := strings.TrimSpace(payload); family != "" {
		prefix += family + ":"
	}
	if err := l.cache.InvalidatePrefix(ctx, prefix); err != nil {
		logger.Warn(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
		return
	}
	logger.Debug(ctx, "cache invalidated", "prefix", prefix)
}

func (l *Listener) sleep(d time.Duration) {
	select {
	case <-l.ctx.Done():
	case <-time.After(d):
	}
}
