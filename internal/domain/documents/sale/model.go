// Package sale provides the Sale document and the engine that registers it.
package sale

import (
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/registers/lot"
)

// Sale is a committed retail sale. Sales are never edited once registered.
type Sale struct {
	ID            id.ID       `db:"id" json:"id"`
	Number        string      `db:"number" json:"number"`
	SoldAt        time.Time   `db:"sold_at" json:"soldAt"`
	Total         types.Money `db:"total" json:"total"`
	Profit        types.Money `db:"profit" json:"profit"`
	PaymentMethod string      `db:"payment_method" json:"paymentMethod"`
	Note          string      `db:"note" json:"note,omitempty"`
	UserID        string      `db:"user_id" json:"userId,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one product sold. Price and cost are snapshots taken at sale time.
type Line struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleID      id.ID       `db:"sale_id" json:"saleId"`
	LineNo      int         `db:"line_no" json:"lineNo"`
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductCode string      `db:"product_code" json:"productCode"`
	ProductName string      `db:"product_name" json:"productName"`
	LotID       *id.ID      `db:"lot_id" json:"lotId,omitempty"`
	LotNumber   string      `db:"lot_number" json:"lotNumber,omitempty"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
	UnitCost    types.Money `db:"unit_cost" json:"unitCost"`
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	Profit      types.Money `db:"profit" json:"profit"`
}

// NewLine snapshots the product's prices for quantity units. l is nil for products without lots.
func NewLine(lineID id.ID, lineNo int, prod product.Product, l *lot.Lot, quantity int64) Line {
	line := Line{
		ID:          lineID,
		LineNo:      lineNo,
		ProductID:   prod.ID,
		ProductCode: prod.Code,
		ProductName: prod.Name,
		Quantity:    quantity,
		UnitPrice:   prod.SalePrice,
		UnitCost:    prod.PurchasePrice,
		Subtotal:    types.LineAmount(prod.SalePrice, quantity),
		Profit:      types.LineAmount(prod.UnitProfit(), quantity),
	}
	if l != nil {
		line.LotID = id.Ptr(l.ID)
		line.LotNumber = l.Number
	}
	return line
}

// New assembles a sale from its lines and computes the totals.
func New(saleID id.ID, number string, lines []Line, paymentMethod, note, userID string, now time.Time) (Sale, error) {
	if len(lines) == 0 {
		return Sale{}, apperror.NewValidation("sale must have at least one line").WithDetail("field", "lines")
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	s := Sale{
		ID:            saleID,
		Number:        number,
		SoldAt:        now,
		PaymentMethod: paymentMethod,
		Note:          note,
		UserID:        userID,
		CreatedAt:     now,
		Lines:         make([]Line, len(lines)),
	}
	subtotals := make([]types.Money, len(lines))
	profits := make([]types.Money, len(lines))
	for i, line := range lines {
		line.SaleID = saleID
		s.Lines[i] = line
		subtotals[i] = line.Subtotal
		profits[i] = line.Profit
	}
	s.Total = types.Sum(subtotals...)
	s.Profit = types.Sum(profits...)
	return s, nil
}

// Cost is the total cost of the goods sold.
func (s Sale) Cost() types.Money {
	return s.Total.Sub(s.Profit)
}

// Margin is profit over cost in percent, recomputed from the line snapshots.
func (s Sale) Margin() types.Money {
	return types.Percent(s.Profit, s.Cost())
}

// Quantity is the number of units sold.
func (s Sale) Quantity() int64 {
	var q int64
	for _, l := range s.Lines {
		q += l.Quantity
	}
	return q
}
