// Package product provides the product catalog: identity, prices and the stock counter.
package product

import (
	"strings"
	"time"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/entity"
	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

// Product is a sellable item of the shop. Values are immutable; transitions return copies.
type Product struct {
	entity.Base

	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Category    string `db:"category" json:"category,omitempty"`

	// PurchasePrice is the reference unit cost, refreshed on every receipt (last cost wins).
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	SalePrice     types.Money `db:"sale_price" json:"salePrice"`

	ReorderThreshold int64 `db:"reorder_threshold" json:"reorderThreshold"`
	Stock            int64 `db:"stock" json:"stock"`

	// TrackBatches requires a lot on every sale and opens lots on every receipt.
	TrackBatches bool   `db:"track_batches" json:"trackBatches"`
	Active       bool   `db:"active" json:"active"`
	SupplierID   *id.ID `db:"supplier_id" json:"supplierId,omitempty"`
}

// CreateParams holds the fields of a new product.
type CreateParams struct {
	Code             string
	Name             string
	Description      string
	Category         string
	PurchasePrice    types.Money
	SalePrice        types.Money
	ReorderThreshold int64
	TrackBatches     bool
	SupplierID       *id.ID
}

// New builds an active product with zero stock.
func New(productID id.ID, p CreateParams, now time.Time) (Product, error) {
	prod := Product{
		Base:             entity.NewBase(productID, now),
		Code:             strings.TrimSpace(p.Code),
		Name:             strings.TrimSpace(p.Name),
		Description:      p.Description,
		Category:         p.Category,
		PurchasePrice:    types.RoundMoney(p.PurchasePrice),
		SalePrice:        types.RoundMoney(p.SalePrice),
		ReorderThreshold: p.ReorderThreshold,
		TrackBatches:     p.TrackBatches,
		Active:           true,
		SupplierID:       p.SupplierID,
	}
	if err := prod.Validate(); err != nil {
		return Product{}, err
	}
	return prod, nil
}

// Validate checks the product invariants.
func (p Product) Validate() error {
	switch {
	case p.Code == "":
		return apperror.NewValidation("product code is required").WithDetail("field", "code")
	case p.Name == "":
		return apperror.NewValidation("product name is required").WithDetail("field", "name")
	case p.PurchasePrice.IsNegative():
		return apperror.NewValidation("purchase price cannot be negative").WithDetail("field", "purchasePrice")
	case p.SalePrice.IsNegative():
		return apperror.NewValidation("sale price cannot be negative").WithDetail("field", "salePrice")
	case p.SalePrice.LessThan(p.PurchasePrice):
		return apperror.NewValidation("sale price must be greater than or equal to purchase price").
			WithDetail("field", "salePrice").
			WithDetail("purchasePrice", p.PurchasePrice.StringFixed(types.MoneyScale))
	case p.ReorderThreshold < 0:
		return apperror.NewValidation("reorder threshold cannot be negative").WithDetail("field", "reorderThreshold")
	case p.Stock < 0:
		return apperror.NewInvalidState("stock cannot be negative").WithDetail("product_id", p.ID.String())
	}
	return nil
}

// AdjustStock returns the product with stock moved by delta.
func (p Product) AdjustStock(delta int64, now time.Time) (Product, error) {
	next := p.Stock + delta
	if next < 0 {
		return p, apperror.NewInvalidState("stock cannot become negative").
			WithDetail("product_id", p.ID.String()).
			WithDetail("stock", p.Stock).
			WithDetail("delta", delta)
	}
	p.Stock = next
	p.Base = p.Base.Touched(now)
	return p, nil
}

// RefreshPurchaseCost returns the product with a new reference unit cost.
func (p Product) RefreshPurchaseCost(cost types.Money, now time.Time) (Product, error) {
	cost = types.RoundMoney(cost)
	if cost.IsNegative() {
		return p, apperror.NewValidation("unit cost cannot be negative").WithDetail("field", "unitCost")
	}
	if p.SalePrice.LessThan(cost) {
		return p, apperror.NewBusinessRule("sale_price_below_cost",
			"unit cost exceeds the sale price of "+p.Name).
			WithDetail("product_id", p.ID.String()).
			WithDetail("unitCost", cost.StringFixed(types.MoneyScale)).
			WithDetail("salePrice", p.SalePrice.StringFixed(types.MoneyScale))
	}
	p.PurchasePrice = cost
	p.Base = p.Base.Touched(now)
	return p, nil
}

// IsBelowReorderThreshold reports stock <= threshold.
func (p Product) IsBelowReorderThreshold() bool {
	return p.Stock <= p.ReorderThreshold
}

// HasStock reports whether quantity units can be taken from the counter.
func (p Product) HasStock(quantity int64) bool {
	return p.Stock >= quantity
}

// UnitProfit is sale price minus purchase price.
func (p Product) UnitProfit() types.Money {
	return p.SalePrice.Sub(p.PurchasePrice)
}

// Margin is the markup over cost in percent, zero when cost is zero.
func (p Product) Margin() types.Money {
	return types.Percent(p.UnitProfit(), p.PurchasePrice)
}

// Deactivate returns the product withdrawn from sale.
func (p Product) Deactivate(now time.Time) Product {
	p.Active = false
	p.Base = p.Base.Touched(now)
	return p
}

// UpdateParams holds editable fields; nil means unchanged.
type UpdateParams struct {
	Name             *string
	Description      *string
	Category         *string
	PurchasePrice    *types.Money
	SalePrice        *types.Money
	ReorderThreshold *int64
	TrackBatches     *bool
	SupplierID       *id.ID
}

// Apply returns the product with the given fields replaced and re-validated.
func (p Product) Apply(u UpdateParams, now time.Time) (Product, error) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.PurchasePrice != nil {
		p.PurchasePrice = types.RoundMoney(*u.PurchasePrice)
	}
	if u.SalePrice != nil {
		p.SalePrice = types.RoundMoney(*u.SalePrice)
	}
	if u.ReorderThreshold != nil {
		p.ReorderThreshold = *u.ReorderThreshold
	}
	if u.TrackBatches != nil && *u.TrackBatches != p.TrackBatches {
		// lots must account for the whole stock of a batch-tracked product
		if p.Stock > 0 {
			return p, apperror.NewBusinessRule("batch_tracking_locked",
				"batch tracking can only change while the product has no stock").
				WithDetail("stock", p.Stock)
		}
		p.TrackBatches = *u.TrackBatches
	}
	if u.SupplierID != nil {
		p.SupplierID = id.Ptr(*u.SupplierID)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	p.Base = p.Base.Touched(now)
	return p, nil
}
