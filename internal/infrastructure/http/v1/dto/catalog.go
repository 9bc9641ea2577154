package dto

import (
	"kiosko/internal/core/types"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
)

// --- Products ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Code             string      `json:"code" binding:"required,max=64"`
	Name             string      `json:"name" binding:"required,max=255"`
	Description      string      `json:"description"`
	Category         string      `json:"category" binding:"max=100"`
	PurchasePrice    types.Money `json:"purchasePrice"`
	SalePrice        types.Money `json:"salePrice"`
	ReorderThreshold int64       `json:"reorderThreshold" binding:"min=0"`
	TrackBatches     bool        `json:"trackBatches"`
	SupplierID       *string     `json:"supplierId" binding:"omitempty,uuid"`
}

// ToParams converts DTO to domain parameters.
func (r *CreateProductRequest) ToParams() product.CreateParams {
	return product.CreateParams{
		Code:             r.Code,
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		PurchasePrice:    r.PurchasePrice,
		SalePrice:        r.SalePrice,
		ReorderThreshold: r.ReorderThreshold,
		TrackBatches:     r.TrackBatches,
		SupplierID:       parseOptionalID(r.SupplierID),
	}
}

// UpdateProductRequest changes only the fields present in the body.
// The code and the stock counter are not editable here.
type UpdateProductRequest struct {
	Name             *string      `json:"name" binding:"omitempty,max=255"`
	Description      *string      `json:"description"`
	Category         *string      `json:"category" binding:"omitempty,max=100"`
	PurchasePrice    *types.Money `json:"purchasePrice"`
	SalePrice        *types.Money `json:"salePrice"`
	ReorderThreshold *int64       `json:"reorderThreshold" binding:"omitempty,min=0"`
	TrackBatches     *bool        `json:"trackBatches"`
	SupplierID       *string      `json:"supplierId" binding:"omitempty,uuid"`
}

// ToParams converts DTO to domain parameters.
func (r *UpdateProductRequest) ToParams() product.UpdateParams {
	return product.UpdateParams{
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		PurchasePrice:    r.PurchasePrice,
		SalePrice:        r.SalePrice,
		ReorderThreshold: r.ReorderThreshold,
		TrackBatches:     r.TrackBatches,
		SupplierID:       parseOptionalID(r.SupplierID),
	}
}

// ProductListQuery filters the product list.
type ProductListQuery struct {
	ListQuery
	Active     *bool  `form:"active"`
	Category   string `form:"category"`
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	Search     string `form:"search"`
}

// ToFilter converts the query to a repository filter.
func (q *ProductListQuery) ToFilter() product.Filter {
	return product.Filter{
		Active:     q.Active,
		Category:   q.Category,
		SupplierID: parseOptionalID(&q.SupplierID),
		Search:     q.Search,
		Page:       q.Page(),
	}
}

// ProductResponse is a product with its derived figures.
type ProductResponse struct {
	product.Product
	UnitProfit   types.Money `json:"unitProfit"`
	Margin       types.Money `json:"margin"`
	NeedsReorder bool        `json:"needsReorder"`
}

// FromProduct creates ProductResponse from a domain product.
func FromProduct(p product.Product) ProductResponse {
	return ProductResponse{
		Product:      p,
		UnitProfit:   p.UnitProfit(),
		Margin:       p.Margin(),
		NeedsReorder: p.IsBelowReorderThreshold(),
	}
}

// FromProducts maps a slice of products.
func FromProducts(items []product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}

// --- Suppliers ---

// SupplierRequest is the body for creating or replacing supplier details.
type SupplierRequest struct {
	Name         string `json:"name" binding:"required,max=255"`
	Contact      string `json:"contact"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	Address      string `json:"address"`
	TaxID        string `json:"taxId" binding:"max=50"`
	PaymentTerms string `json:"paymentTerms"`
	BankAccounts string `json:"bankAccounts"`
}

// ToDetails converts DTO to domain details.
func (r *SupplierRequest) ToDetails() supplier.Details {
	return supplier.Details{
		Name:         r.Name,
		Contact:      r.Contact,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		TaxID:        r.TaxID,
		PaymentTerms: r.PaymentTerms,
		BankAccounts: r.BankAccounts,
	}
}

// SupplierListQuery filters the supplier list.
type SupplierListQuery struct {
	ListQuery
	Active *bool  `form:"active"`
	Search string `form:"search"`
}

// ToFilter converts the query to a repository filter.
func (q *SupplierListQuery) ToFilter() supplier.Filter {
	return supplier.Filter{Active: q.Active, Search: q.Search, Page: q.Page()}
}
