// Package register_repo provides the PostgreSQL lot ledger.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain/registers/lot"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ lot.Repository = (*LotRepo)(nil)

// LotRepo implements lot.Repository.
type LotRepo struct {
	table *postgres.Table[lot.Lot]
}

// NewLotRepo creates a new lot repository.
func NewLotRepo(txm *postgres.TxManager) *LotRepo {
	return &LotRepo{table: postgres.NewTable[lot.Lot](txm, "lots", "lot")}
}

func (r *LotRepo) Create(ctx context.Context, l lot.Lot) error {
	err := r.table.Insert(ctx, l)
	if apperror.IsDuplicate(err) {
		return apperror.NewDuplicate("lot", "number", l.Number)
	}
	return err
}

func (r *LotRepo) Update(ctx context.Context, l lot.Lot) (lot.Lot, error) {
	if err := r.table.UpdateVersioned(ctx, l); err != nil {
		return lot.Lot{}, err
	}
	l.Base = l.Base.NextVersion()
	return l, nil
}

func (r *LotRepo) GetByID(ctx context.Context, lotID id.ID) (lot.Lot, error) {
	return r.table.GetByID(ctx, lotID)
}

func (r *LotRepo) GetByNumber(ctx context.Context, productID id.ID, number string) (lot.Lot, error) {
	q := r.table.SelectAll().Where(squirrel.Eq{"product_id": productID, "number": number})
	return r.table.Get(ctx, q, number)
}

func (r *LotRepo) GetForUpdate(ctx context.Context, lotID id.ID) (lot.Lot, error) {
	return r.table.GetForUpdate(ctx, lotID)
}

func (r *LotRepo) ListAvailable(ctx context.Context, productID id.ID) ([]lot.Lot, error) {
	return r.table.Select(ctx, r.available().Where(squirrel.Eq{"product_id": productID}))
}

func (r *LotRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]lot.Lot, error) {
	q := r.available().Where(squirrel.Lt{"expires_at": to})
	if !from.IsZero() {
		q = q.Where(squirrel.GtOrEq{"expires_at": from})
	}
	return r.table.Select(ctx, q)
}

// Delete removes the lot. Lots with sales are kept; purchase lines lose the reference.
func (r *LotRepo) Delete(ctx context.Context, lotID id.ID) error {
	l, err := r.table.GetForUpdate(ctx, lotID)
	if err != nil {
		return err
	}
	if l.Consumed > 0 {
		return apperror.NewBusinessRule("lot_consumed", "lot "+l.Number+" has sales and cannot be deleted").
			WithDetail("lot_id", lotID.String())
	}

	sql, args, err := r.table.Builder().Delete(r.table.Name()).Where(squirrel.Eq{"id": lotID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.table.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

// available selects lots with stock left, nearest expiry first.
func (r *LotRepo) available() squirrel.SelectBuilder {
	return r.table.SelectAll().
		Where("consumed < quantity").
		OrderBy("expires_at", "number")
}
