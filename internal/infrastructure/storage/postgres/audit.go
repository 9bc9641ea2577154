package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/id"
	"kiosko/internal/domain/audit"
)

var _ audit.Repository = (*AuditRepo)(nil)

// AuditRepo stores journal entries in sys_audit. Entries arrive already compressed
// by audit.Recorder; the row is written inside the caller's transaction.
type AuditRepo struct {
	table *Table[audit.Entry]
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txm *TxManager) *AuditRepo {
	return &AuditRepo{table: NewTable[audit.Entry](txm, "sys_audit", "audit entry")}
}

func (r *AuditRepo) Append(ctx context.Context, e audit.Entry) error {
	return r.table.Insert(ctx, e)
}

func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	q := r.table.SelectAll().
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return r.table.Select(ctx, q)
}
