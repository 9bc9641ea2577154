package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/registers/lot"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// DefaultExpiringDays is the look-ahead of GET /lots/expiring without ?days.
const DefaultExpiringDays = 30

// LotHandler serves the lot ledger.
type LotHandler struct {
	*BaseHandler
	service      *lot.Service
	expiringDays int
}

// NewLotHandler creates a lot handler. expiringDays <= 0 selects DefaultExpiringDays.
func NewLotHandler(base *BaseHandler, service *lot.Service, expiringDays int) *LotHandler {
	if expiringDays <= 0 {
		expiringDays = DefaultExpiringDays
	}
	return &LotHandler{BaseHandler: base, service: service, expiringDays: expiringDays}
}

// Get handles GET /lots/:id
func (h *LotHandler) Get(c *gin.Context) {
	lotID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, l)
}

// Expired handles GET /lots/expired
func (h *LotHandler) Expired(c *gin.Context) {
	items, err := h.service.ListExpired(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": nonNil(items)})
}

// Expiring handles GET /lots/expiring?days=
func (h *LotHandler) Expiring(c *gin.Context) {
	var q dto.ExpiringLotsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	days := h.expiringDays
	if q.Days != nil {
		days = *q.Days
	}

	items, err := h.service.ListExpiringWithin(c.Request.Context(), days)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"days": days, "items": nonNil(items)})
}

// Delete handles DELETE /lots/:id. Only lots with nothing consumed can be removed.
func (h *LotHandler) Delete(c *gin.Context) {
	lotID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), lotID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
