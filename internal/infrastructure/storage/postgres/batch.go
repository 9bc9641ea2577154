package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"kiosko/internal/core/id"
)

// BatchInserter writes document lines with the COPY protocol inside the caller's
// transaction.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// CopyFromSlice inserts rows into table. Every row matches columns.
func (b *BatchInserter) CopyFromSlice(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	tx := b.txManager.GetTx(ctx)
	if tx == nil {
		return 0, fmt.Errorf("CopyFromSlice requires transaction context")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
}

// CopyStructs inserts items into table using their db tags restricted to columns.
func CopyStructs[T any](ctx context.Context, b *BatchInserter, table string, columns []string, items []T) error {
	rows := make([][]any, len(items))
	for i, item := range items {
		data := StructToMap(item)
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = copyValue(data[col])
		}
		rows[i] = row
	}
	n, err := b.CopyFromSlice(ctx, table, columns, rows)
	if err != nil {
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	if n != int64(len(items)) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(items))
	}
	return nil
}

// copyValue maps amounts and ids to their pgtype values so COPY encodes them
// directly instead of through driver.Valuer text.
func copyValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return pgtype.Numeric{Int: x.Coefficient(), Exp: x.Exponent(), Valid: true}
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return copyValue(*x)
	case id.ID:
		return pgtype.UUID{Bytes: x, Valid: true}
	case *id.ID:
		if x == nil {
			return nil
		}
		return pgtype.UUID{Bytes: *x, Valid: true}
	}
	return v
}
