package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/documents/purchase"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves the purchase engine.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.RegisterPurchase(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPurchase(p))
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromPurchase(p))
}

// List handles GET /purchases?supplierId=&unpaid=&from=&to=
func (h *PurchaseHandler) List(c *gin.Context) {
	var q dto.PurchaseListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q.RangeQuery, true)
	res, err := h.service.List(c.Request.Context(), purchase.Filter{
		SupplierID: h.QueryID(q.SupplierID),
		UnpaidOnly: q.Unpaid,
		From:       from,
		To:         to,
		Page:       q.Page(),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromListResult(res, dto.FromPurchase))
}
