// Package reports provides read-only sales and profit reports.
package reports

import (
	"time"

	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

// Range is a half-open interval [From, To) of whole days.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SalesTotals aggregates the sales of a range.
type SalesTotals struct {
	SaleCount int64       `db:"sale_count" json:"saleCount"`
	Total     types.Money `db:"total" json:"total"`
	Profit    types.Money `db:"profit" json:"profit"`
}

// ProfitReport summarizes sales, gross profit and supplier payments of a range.
type ProfitReport struct {
	Range
	SaleCount        int64       `json:"saleCount"`
	SalesTotal       types.Money `json:"salesTotal"`
	CostTotal        types.Money `json:"costTotal"`
	ProfitTotal      types.Money `json:"profitTotal"`
	Margin           types.Money `json:"margin"`
	SupplierPayments types.Money `json:"supplierPayments"`
	NetProfit        types.Money `json:"netProfit"`
}

// DailySales is one day of the sales-by-day report.
type DailySales struct {
	Day       time.Time   `db:"day" json:"day"`
	SaleCount int64       `db:"sale_count" json:"saleCount"`
	Total     types.Money `db:"total" json:"total"`
	Profit    types.Money `db:"profit" json:"profit"`
}

// ProductSales is one row of the top products report.
type ProductSales struct {
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductCode string      `db:"product_code" json:"productCode"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	Total       types.Money `db:"total" json:"total"`
	Profit      types.Money `db:"profit" json:"profit"`
}
