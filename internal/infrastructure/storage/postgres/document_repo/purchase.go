package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	table *postgres.Table[purchase.Purchase]
	lines *lineStore[purchase.Line]
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		table: postgres.NewTable[purchase.Purchase](txm, "purchases", "purchase"),
		lines: newLineStore(txm, "purchase_lines", "purchase_id", func(l purchase.Line) id.ID { return l.PurchaseID }),
	}
}

// Create stores the header and its lines. Lines may reference lots opened later in the
// same transaction; the foreign key is checked at commit.
func (r *PurchaseRepo) Create(ctx context.Context, p purchase.Purchase) error {
	if err := r.table.Insert(ctx, p); err != nil {
		if apperror.IsDuplicate(err) {
			return apperror.NewDuplicate("purchase", "number", p.Number)
		}
		return err
	}
	return r.lines.insert(ctx, p.Lines)
}

// Update writes the payment state only.
func (r *PurchaseRepo) Update(ctx context.Context, p purchase.Purchase) (purchase.Purchase, error) {
	sql, args, err := r.table.Builder().
		Update(r.table.Name()).
		Set("amount_paid", p.AmountPaid).
		Set("paid", p.Paid).
		Set("updated_at", p.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version}).
		ToSql()
	if err != nil {
		return purchase.Purchase{}, fmt.Errorf("build update: %w", err)
	}
	tag, err := r.table.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return purchase.Purchase{}, fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.table.Exists(ctx, p.ID)
		if err != nil {
			return purchase.Purchase{}, err
		}
		if !exists {
			return purchase.Purchase{}, apperror.NewNotFound("purchase", p.ID)
		}
		return purchase.Purchase{}, apperror.NewConcurrentModification("purchase", p.ID)
	}
	p.Base = p.Base.NextVersion()
	return p, nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (purchase.Purchase, error) {
	p, err := r.table.GetByID(ctx, purchaseID)
	if err != nil {
		return purchase.Purchase{}, err
	}
	items, err := r.withLines(ctx, []purchase.Purchase{p})
	if err != nil {
		return purchase.Purchase{}, err
	}
	return items[0], nil
}

func (r *PurchaseRepo) GetForUpdate(ctx context.Context, purchaseID id.ID) (purchase.Purchase, error) {
	return r.table.GetForUpdate(ctx, purchaseID)
}

func (r *PurchaseRepo) List(ctx context.Context, f purchase.Filter) (domain.ListResult[purchase.Purchase], error) {
	q := inRange(r.table.SelectAll(), "purchased_at", f.From, f.To)
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.UnpaidOnly {
		q = q.Where(squirrel.Eq{"paid": false})
	}
	res, err := r.table.List(ctx, q, f.Page, "purchased_at DESC", "number DESC")
	if err != nil {
		return res, err
	}
	res.Items, err = r.withLines(ctx, res.Items)
	return res, err
}

func (r *PurchaseRepo) ListUnpaid(ctx context.Context, supplierID *id.ID) ([]purchase.Purchase, error) {
	q := r.table.SelectAll().
		Where(squirrel.Eq{"paid": false}).
		OrderBy("purchased_at DESC", "number DESC")
	if supplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *supplierID})
	}
	return r.table.Select(ctx, q)
}

func (r *PurchaseRepo) withLines(ctx context.Context, purchases []purchase.Purchase) ([]purchase.Purchase, error) {
	ids := make([]id.ID, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}
	byParent, err := r.lines.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		purchases[i].Lines = byParent[purchases[i].ID]
	}
	return purchases, nil
}
