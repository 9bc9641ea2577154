package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/documents/sale"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the sale engine.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	s, err := h.service.RegisterSale(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, s)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// GetByNumber handles GET /sales/by-number/:number
func (h *SaleHandler) GetByNumber(c *gin.Context) {
	s, err := h.service.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, s)
}

// List handles GET /sales?from=&to=
func (h *SaleHandler) List(c *gin.Context) {
	var q struct {
		dto.ListQuery
		dto.RangeQuery
	}
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q.RangeQuery, true)
	res, err := h.service.List(c.Request.Context(), sale.Filter{From: from, To: to, Page: q.Page()})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
