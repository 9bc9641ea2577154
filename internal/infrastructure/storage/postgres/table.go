package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// Table provides the CRUD statements shared by every repository over one table.
// Columns come from the "db" tags of T; embed Table in a concrete repository.
type Table[T any] struct {
	txManager *TxManager
	name      string
	entity    string
	cols      []string
}

// NewTable creates a table helper. entity names the row kind in NotFound errors.
func NewTable[T any](txManager *TxManager, name, entity string) *Table[T] {
	return &Table[T]{
		txManager: txManager,
		name:      name,
		entity:    entity,
		cols:      ExtractDBColumns[T](),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Columns returns the mapped column names.
func (t *Table[T]) Columns() []string { return t.cols }

// Builder returns a squirrel builder with PostgreSQL placeholders.
func (t *Table[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the unit of work's transaction or the pool.
func (t *Table[T]) Querier(ctx context.Context) Querier {
	return t.txManager.GetQuerier(ctx)
}

// TxManager returns the manager the table runs on.
func (t *Table[T]) TxManager() *TxManager {
	return t.txManager
}

// SelectAll starts a SELECT of every mapped column.
func (t *Table[T]) SelectAll() squirrel.SelectBuilder {
	return t.Builder().Select(t.cols...).From(t.name)
}

// Insert writes row using its db tags.
func (t *Table[T]) Insert(ctx context.Context, row T) error {
	data := StructToMap(row)
	values := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		values[col] = data[col]
	}

	sql, args, err := t.Builder().Insert(t.name).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		if IsUniqueViolation(err, "") {
			return apperror.NewDuplicate(t.entity, "key", fmt.Sprint(data["id"])).WithCause(err)
		}
		return fmt.Errorf("insert %s: %w", t.name, translateError(err))
	}
	return nil
}

// UpdateVersioned rewrites row guarded by the version it was read at.
// id, created_at and version are never written from row; version becomes version+1.
func (t *Table[T]) UpdateVersioned(ctx context.Context, row T) error {
	data := StructToMap(row)
	rowID, ok := data["id"].(id.ID)
	if !ok {
		return fmt.Errorf("%s row has no id", t.name)
	}
	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("%s row has no version", t.name)
	}

	values := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		switch col {
		case "id", "created_at", "version":
			continue
		}
		values[col] = data[col]
	}

	sql, args, err := t.Builder().
		Update(t.name).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rowID, "version": version}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		exists, err := t.Exists(ctx, rowID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound(t.entity, rowID)
		}
		return apperror.NewConcurrentModification(t.entity, rowID)
	}
	return nil
}

// Exists reports whether a row with rowID is stored.
func (t *Table[T]) Exists(ctx context.Context, rowID id.ID) (bool, error) {
	sql, args, err := t.Builder().
		Select("1").From(t.name).
		Where(squirrel.Eq{"id": rowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}
	var one int
	err = t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t.name, err)
	}
	return true, nil
}

// GetByID loads one row.
func (t *Table[T]) GetByID(ctx context.Context, rowID id.ID) (T, error) {
	return t.Get(ctx, t.SelectAll().Where(squirrel.Eq{"id": rowID}), rowID)
}

// GetForUpdate loads one row and locks it until the transaction ends.
func (t *Table[T]) GetForUpdate(ctx context.Context, rowID id.ID) (T, error) {
	return t.Get(ctx, t.SelectAll().Where(squirrel.Eq{"id": rowID}).Suffix("FOR UPDATE"), rowID)
}

// Get runs q expecting one row; key is reported in the NotFound error.
func (t *Table[T]) Get(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	var row T
	sql, args, err := q.ToSql()
	if err != nil {
		return row, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, t.Querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return row, apperror.NewNotFound(t.entity, key)
		}
		return row, fmt.Errorf("get %s: %w", t.name, translateError(err))
	}
	return row, nil
}

// Select runs q and scans every row.
func (t *Table[T]) Select(ctx context.Context, q squirrel.SelectBuilder) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows := make([]T, 0)
	if err := pgxscan.Select(ctx, t.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, translateError(err))
	}
	return rows, nil
}

// List counts the rows matched by q, then returns one page ordered by orderBy.
func (t *Table[T]) List(ctx context.Context, q squirrel.SelectBuilder, page domain.Page, orderBy ...string) (domain.ListResult[T], error) {
	page = page.Normalize()
	result := domain.ListResult[T]{Limit: page.Limit, Offset: page.Offset}

	countSQL, countArgs, err := t.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := t.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count %s: %w", t.name, err)
	}

	items, err := t.Select(ctx, q.OrderBy(orderBy...).Limit(uint64(page.Limit)).Offset(uint64(page.Offset)))
	if err != nil {
		return result, err
	}
	result.Items = items
	return result, nil
}
