package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/catalogs/supplier"
	"kiosko/internal/domain/registers/debt"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// SupplierHandler serves the supplier catalog and the debt register.
type SupplierHandler struct {
	*CatalogHandler[supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest, dto.SupplierListQuery]
	service  *supplier.Service
	products *product.Service
	debts    *debt.Service
}

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service, products *product.Service, debts *debt.Service) *SupplierHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[supplier.Supplier, dto.SupplierRequest, dto.SupplierRequest, dto.SupplierListQuery]{
		Create: func(ctx context.Context, req *dto.SupplierRequest) (supplier.Supplier, error) {
			return service.Create(ctx, req.ToDetails())
		},
		Update: func(ctx context.Context, supplierID id.ID, req *dto.SupplierRequest) (supplier.Supplier, error) {
			return service.Update(ctx, supplierID, req.ToDetails())
		},
		Get:        service.GetByID,
		Deactivate: service.Deactivate,
		List: func(ctx context.Context, q *dto.SupplierListQuery) (domain.ListResult[supplier.Supplier], error) {
			return service.List(ctx, q.ToFilter())
		},
	})
	return &SupplierHandler{CatalogHandler: catalog, service: service, products: products, debts: debts}
}

// Debt handles GET /suppliers/:id/debt
func (h *SupplierHandler) Debt(c *gin.Context) {
	supplierID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	summary, err := h.debts.DebtSummary(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// Overdue handles GET /suppliers/overdue: suppliers with at least one overdue purchase.
func (h *SupplierHandler) Overdue(c *gin.Context) {
	items, err := h.debts.OverdueSuppliers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": nonNil(items)})
}

// Products handles GET /suppliers/:id/products
func (h *SupplierHandler) Products(c *gin.Context) {
	supplierID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	res, err := h.products.ListBySupplier(c.Request.Context(), supplierID, q.Page())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(res, dto.FromProduct))
}
