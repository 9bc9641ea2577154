package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/documents/payment"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves supplier payments.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.ApplyPayment(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List handles GET /payments?supplierId=&purchaseId=&from=&to=
func (h *PaymentHandler) List(c *gin.Context) {
	var q dto.PaymentListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q.RangeQuery, true)
	res, err := h.service.List(c.Request.Context(), payment.Filter{
		SupplierID: h.QueryID(q.SupplierID),
		PurchaseID: h.QueryID(q.PurchaseID),
		From:       from,
		To:         to,
		Page:       q.Page(),
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
