package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"kiosko/internal/core/apperror"
)

func TestTranslateError(t *testing.T) {
	conflict := &pgconn.PgError{Code: pgSerializationFailure, TableName: "lots"}
	err := translateError(fmt.Errorf("update lot: %w", conflict))
	assert.True(t, apperror.IsConcurrentModification(err))
	assert.ErrorIs(t, err, conflict)

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
	assert.NoError(t, translateError(nil))

	notFound := apperror.NewNotFound("product", "X")
	assert.Equal(t, notFound, translateError(notFound))
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&pgconn.PgError{Code: pgDeadlockDetected}))
	assert.True(t, retryable(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgSerializationFailure})))
	assert.False(t, retryable(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.False(t, retryable(&pgconn.PgError{Code: pgLockNotAvailable}))
	assert.False(t, retryable(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "products_code_key"})
	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "products_code_key"))
	assert.False(t, IsUniqueViolation(err, "suppliers_name_key"))
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}
