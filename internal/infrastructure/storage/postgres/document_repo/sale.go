package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ sale.Repository = (*SaleRepo)(nil)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	table *postgres.Table[sale.Sale]
	lines *lineStore[sale.Line]
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		table: postgres.NewTable[sale.Sale](txm, "sales", "sale"),
		lines: newLineStore(txm, "sale_lines", "sale_id", func(l sale.Line) id.ID { return l.SaleID }),
	}
}

func (r *SaleRepo) Create(ctx context.Context, s sale.Sale) error {
	if err := r.table.Insert(ctx, s); err != nil {
		if apperror.IsDuplicate(err) {
			return apperror.NewDuplicate("sale", "number", s.Number)
		}
		return err
	}
	return r.lines.insert(ctx, s.Lines)
}

func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (sale.Sale, error) {
	return r.get(ctx, r.table.SelectAll().Where(squirrel.Eq{"id": saleID}), saleID)
}

func (r *SaleRepo) GetByNumber(ctx context.Context, number string) (sale.Sale, error) {
	return r.get(ctx, r.table.SelectAll().Where(squirrel.Eq{"number": number}), number)
}

func (r *SaleRepo) List(ctx context.Context, f sale.Filter) (domain.ListResult[sale.Sale], error) {
	q := inRange(r.table.SelectAll(), "sold_at", f.From, f.To)
	res, err := r.table.List(ctx, q, f.Page, "sold_at DESC", "number DESC")
	if err != nil {
		return res, err
	}
	res.Items, err = r.withLines(ctx, res.Items)
	return res, err
}

func (r *SaleRepo) get(ctx context.Context, q squirrel.SelectBuilder, key any) (sale.Sale, error) {
	s, err := r.table.Get(ctx, q, key)
	if err != nil {
		return sale.Sale{}, err
	}
	items, err := r.withLines(ctx, []sale.Sale{s})
	if err != nil {
		return sale.Sale{}, err
	}
	return items[0], nil
}

func (r *SaleRepo) withLines(ctx context.Context, sales []sale.Sale) ([]sale.Sale, error) {
	ids := make([]id.ID, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
	}
	byParent, err := r.lines.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Lines = byParent[sales[i].ID]
	}
	return sales, nil
}
