package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/apperror"
	"kiosko/internal/core/id"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	// loc is the shop timezone used for calendar-date query parameters.
	loc *time.Location
}

// NewBaseHandler creates a new base handler. A nil loc means UTC.
func NewBaseHandler(loc *time.Location) *BaseHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BaseHandler{loc: loc}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// ParamID parses the path parameter name as an entity id.
func (h *BaseHandler) ParamID(c *gin.Context, name string) (id.ID, bool) {
	raw := c.Param(name)
	v, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").
			WithDetail("param", name).
			WithDetail("value", raw))
		return id.Nil(), false
	}
	return v, true
}

// QueryID parses an optional id query parameter already checked by binding.
func (h *BaseHandler) QueryID(raw string) *id.ID {
	if raw == "" {
		return nil
	}
	v, err := id.Parse(raw)
	if err != nil {
		return nil
	}
	return id.Ptr(v)
}

// Days converts an inclusive calendar range into instants in the shop timezone.
// Missing ends stay zero. When halfOpen is set, to is moved to the next midnight.
func (h *BaseHandler) Days(q dto.RangeQuery, halfOpen bool) (from, to time.Time) {
	if q.From != "" {
		from, _ = time.ParseInLocation(time.DateOnly, q.From, h.loc)
	}
	if q.To != "" {
		to, _ = time.ParseInLocation(time.DateOnly, q.To, h.loc)
		if halfOpen && !to.IsZero() {
			to = to.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// Error registers error on Gin context and aborts request.
// The JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Created sends 201 response with the created resource.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
