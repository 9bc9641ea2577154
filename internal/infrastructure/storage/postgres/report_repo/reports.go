// Package report_repo provides the PostgreSQL aggregates behind the reports.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"kiosko/internal/core/types"
	"kiosko/internal/domain/reports"
	"kiosko/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository with GROUP BY queries over committed documents.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txm}
}

func (r *ReportRepo) SalesTotals(ctx context.Context, from, to time.Time) (reports.SalesTotals, error) {
	const query = `
		SELECT
			COUNT(*)                  AS sale_count,
			COALESCE(SUM(total), 0)  AS total,
			COALESCE(SUM(profit), 0) AS profit
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
	`
	var out reports.SalesTotals
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &out, query, from, to); err != nil {
		return reports.SalesTotals{}, fmt.Errorf("sales totals: %w", err)
	}
	return out, nil
}

func (r *ReportRepo) PaymentsTotal(ctx context.Context, from, to time.Time) (types.Money, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE paid_at >= $1 AND paid_at < $2
	`
	total := types.Zero()
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("payments total: %w", err)
	}
	return total, nil
}

func (r *ReportRepo) SalesByDay(ctx context.Context, from, to time.Time, loc *time.Location) ([]reports.DailySales, error) {
	if loc == nil {
		loc = time.UTC
	}
	const query = `
		SELECT
			date_trunc('day', sold_at AT TIME ZONE $3) AT TIME ZONE $3 AS day,
			COUNT(*)    AS sale_count,
			SUM(total)  AS total,
			SUM(profit) AS profit
		FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		GROUP BY 1
		ORDER BY 1
	`
	items := make([]reports.DailySales, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, query, from, to, loc.String()); err != nil {
		return nil, fmt.Errorf("sales by day: %w", err)
	}
	for i := range items {
		items[i].Day = items[i].Day.In(loc)
	}
	return items, nil
}

func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]reports.ProductSales, error) {
	const query = `
		SELECT
			l.product_id,
			p.code          AS product_code,
			p.name          AS product_name,
			SUM(l.quantity) AS quantity,
			SUM(l.subtotal) AS total,
			SUM(l.profit)   AS profit
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		JOIN products p ON p.id = l.product_id
		WHERE s.sold_at >= $1 AND s.sold_at < $2
		GROUP BY l.product_id, p.code, p.name
		ORDER BY quantity DESC, total DESC, p.code
		LIMIT $3
	`
	items := make([]reports.ProductSales, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, query, from, to, limit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return items, nil
}
