package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kiosko/internal/core/tx"
	"kiosko/pkg/logger"
)

var tracer = otel.Tracer("kiosko/tx")

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// TxOptions configures one unit of work.
type TxOptions struct {
	IsolationLevel pgx.TxIsoLevel
	AccessMode     pgx.TxAccessMode

	// StatementTimeout is applied with SET LOCAL; zero leaves the server default.
	StatementTimeout time.Duration

	// Retries is how many more times the whole unit runs after a serialization
	// failure or deadlock. Nested units never retry on their own.
	Retries int
}

// DefaultTxOptions are used by RunInTransaction.
func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel:   pgx.ReadCommitted,
		AccessMode:       pgx.ReadWrite,
		StatementTimeout: 30 * time.Second,
		Retries:          2,
	}
}

// TxManager runs units of work in a single pgx transaction stored in the context.
// Repositories pick the transaction up through GetQuerier. Nested calls join the
// outer transaction.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a new transaction manager.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

type txKey struct{}

// Tx is the transaction carried by a unit-of-work context.
type Tx struct {
	pgx.Tx
}

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTransactionWithOptions(ctx, DefaultTxOptions(), fn)
}

// ReadOnly executes fn in a repeatable-read, read-only transaction; every query
// in fn sees the same snapshot.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := DefaultTxOptions()
	opts.IsolationLevel = pgx.RepeatableRead
	opts.AccessMode = pgx.ReadOnly
	return m.RunInTransactionWithOptions(ctx, opts, fn)
}

// RunInTransactionWithOptions executes fn with custom transaction options.
func (m *TxManager) RunInTransactionWithOptions(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "tx.run",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsolationLevel)),
			attribute.String("tx.access", string(opts.AccessMode)),
		))
	defer span.End()

	var err error
	for attempt := 0; ; attempt++ {
		err = m.run(ctx, opts, fn)
		if err == nil || attempt >= opts.Retries || !retryable(err) || ctx.Err() != nil {
			break
		}
		logger.Warn(ctx, "transaction conflict, retrying", "attempt", attempt+1, "error", err)
		span.AddEvent("retry", trace.WithAttributes(attribute.Int("tx.attempt", attempt+1)))
	}

	err = translateError(err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (m *TxManager) run(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	pgTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   opts.IsolationLevel,
		AccessMode: opts.AccessMode,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if opts.StatementTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds())
		if _, err := pgTx.Exec(ctx, stmt); err != nil {
			_ = pgTx.Rollback(ctx)
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, &Tx{Tx: pgTx})); err != nil {
		// rollback must finish even when ctx is already cancelled
		if rbErr := pgTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// GetTx returns the current transaction from context, or nil if none.
func (m *TxManager) GetTx(ctx context.Context) *Tx {
	if t, ok := ctx.Value(txKey{}).(*Tx); ok {
		return t
	}
	return nil
}

// Querier is satisfied by both pgx.Tx and pgxpool.Pool, so repositories work
// inside and outside a unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the unit-of-work transaction when ctx carries one, the pool otherwise.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t.Tx
	}
	return m.pool
}
