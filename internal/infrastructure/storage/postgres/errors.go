package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kiosko/internal/core/apperror"
)

// SQLSTATE codes the core reacts to.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// translateError maps conflicts reported by Postgres to ConcurrentModification so
// callers retry the whole unit of work. Other errors pass through.
func translateError(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return apperror.NewConcurrentModification(pgErr.TableName, pgErr.ConstraintName).WithCause(err)
		}
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation on constraint
// (any constraint when empty).
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsNoRows reports whether a single-row query found nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
