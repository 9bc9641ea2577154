// Package document_repo provides PostgreSQL implementations of the document repositories.
// Headers and lines are written in the caller's unit of work; lines go through COPY.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"kiosko/internal/core/id"
	"kiosko/internal/infrastructure/storage/postgres"
)

// lineStore reads and writes the lines of one document kind.
type lineStore[L any] struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
	table     string
	parentCol string
	cols      []string
	parentOf  func(L) id.ID
}

func newLineStore[L any](txm *postgres.TxManager, table, parentCol string, parentOf func(L) id.ID) *lineStore[L] {
	return &lineStore[L]{
		txManager: txm,
		batch:     postgres.NewBatchInserter(txm),
		table:     table,
		parentCol: parentCol,
		cols:      postgres.ExtractDBColumns[L](),
		parentOf:  parentOf,
	}
}

func (s *lineStore[L]) insert(ctx context.Context, lines []L) error {
	return postgres.CopyStructs(ctx, s.batch, s.table, s.cols, lines)
}

// load returns the lines of every parent in parents keyed by parent, in line order.
func (s *lineStore[L]) load(ctx context.Context, parents []id.ID) (map[id.ID][]L, error) {
	out := make(map[id.ID][]L, len(parents))
	if len(parents) == 0 {
		return out, nil
	}
	sql, args, err := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(s.cols...).
		From(s.table).
		Where(squirrel.Eq{s.parentCol: parents}).
		OrderBy(s.parentCol, "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []L
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.table, err)
	}
	for _, l := range lines {
		parent := s.parentOf(l)
		out[parent] = append(out[parent], l)
	}
	return out, nil
}

// inRange adds the half-open [from, to) bounds on col; zero bounds are open.
func inRange(q squirrel.SelectBuilder, col string, from, to time.Time) squirrel.SelectBuilder {
	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{col: from})
	}
	if !to.IsZero() {
		q = q.Where(squirrel.Lt{col: to})
	}
	return q
}
