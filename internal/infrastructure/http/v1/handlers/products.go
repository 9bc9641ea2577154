package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/domain/catalogs/product"
	"kiosko/internal/domain/registers/lot"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	*CatalogHandler[product.Product, dto.CreateProductRequest, dto.UpdateProductRequest, dto.ProductListQuery]
	service *product.Service
	lots    *lot.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service, lots *lot.Service) *ProductHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[product.Product, dto.CreateProductRequest, dto.UpdateProductRequest, dto.ProductListQuery]{
		Create: func(ctx context.Context, req *dto.CreateProductRequest) (product.Product, error) {
			return service.Create(ctx, req.ToParams())
		},
		Update: func(ctx context.Context, productID id.ID, req *dto.UpdateProductRequest) (product.Product, error) {
			return service.Update(ctx, productID, req.ToParams())
		},
		Get:        service.GetByID,
		Deactivate: service.Deactivate,
		List: func(ctx context.Context, q *dto.ProductListQuery) (domain.ListResult[product.Product], error) {
			return service.List(ctx, q.ToFilter())
		},
		MapToDTO: func(p product.Product) any { return dto.FromProduct(p) },
	})
	return &ProductHandler{CatalogHandler: catalog, service: service, lots: lots}
}

// GetByCode handles GET /products/by-code/:code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	p, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	items, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": dto.FromProducts(items)})
}

// Lots handles GET /products/:id/lots: lots of the product with units left, earliest expiry first.
func (h *ProductHandler) Lots(c *gin.Context) {
	productID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.service.GetByID(ctx, productID); err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.lots.ListAvailableForProduct(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": nonNil(items)})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
