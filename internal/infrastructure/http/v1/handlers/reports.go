package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/reports"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// ReportHandler serves profit and sales reports.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

// Profit handles GET /reports/profit?from=&to=
func (h *ReportHandler) Profit(c *gin.Context) {
	var q dto.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q, false)
	report, err := h.service.Profit(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// SalesByDay handles GET /reports/sales-by-day?from=&to=
func (h *ReportHandler) SalesByDay(c *gin.Context) {
	var q dto.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q, false)
	days, err := h.service.SalesByDay(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": nonNil(days)})
}

// TopProducts handles GET /reports/top-products?from=&to=&limit=
func (h *ReportHandler) TopProducts(c *gin.Context) {
	var q dto.TopProductsQuery
	if !h.BindQuery(c, &q) {
		return
	}

	from, to := h.Days(q.RangeQuery, false)
	top, err := h.service.TopProducts(c.Request.Context(), from, to, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": nonNil(top)})
}
