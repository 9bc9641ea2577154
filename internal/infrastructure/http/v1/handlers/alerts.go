package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/alerts"
)

// AlertHandler serves the alert snapshot.
type AlertHandler struct {
	*BaseHandler
	service *alerts.Service
}

// NewAlertHandler creates an alert handler.
func NewAlertHandler(base *BaseHandler, service *alerts.Service) *AlertHandler {
	return &AlertHandler{BaseHandler: base, service: service}
}

// Get handles GET /alerts. The cached snapshot is served unless ?refresh=true.
func (h *AlertHandler) Get(c *gin.Context) {
	var (
		snap alerts.Snapshot
		err  error
	)
	if c.Query("refresh") == "true" {
		snap, err = h.service.Refresh(c.Request.Context())
	} else {
		snap, err = h.service.Latest(c.Request.Context())
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, snap)
}
