package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"kiosko/internal/core/id"
	"kiosko/internal/domain"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides the shared list/get/create/update/deactivate endpoints of
// the product and supplier catalogs.
type CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO any] struct {
	*BaseHandler
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO, QueryDTO]
}

// CatalogHandlerConfig binds the handler to a catalog service.
type CatalogHandlerConfig[T, CreateDTO, UpdateDTO, QueryDTO any] struct {
	Create     func(ctx context.Context, req *CreateDTO) (T, error)
	Update     func(ctx context.Context, entityID id.ID, req *UpdateDTO) (T, error)
	Get        func(ctx context.Context, entityID id.ID) (T, error)
	Deactivate func(ctx context.Context, entityID id.ID) (T, error)
	List       func(ctx context.Context, q *QueryDTO) (domain.ListResult[T], error)
	MapToDTO   func(entity T) any
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO, QueryDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO] {
	if cfg.MapToDTO == nil {
		cfg.MapToDTO = func(e T) any { return e }
	}
	return &CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]{BaseHandler: base, cfg: cfg}
}

// List handles GET /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]) List(c *gin.Context) {
	var q QueryDTO
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.cfg.List(c.Request.Context(), &q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromListResult(result, h.cfg.MapToDTO))
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	entity, err := h.cfg.Get(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.cfg.MapToDTO(entity))
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.cfg.Create(c.Request.Context(), &req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.cfg.MapToDTO(entity))
}

// Update handles PUT /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]) Update(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity, err := h.cfg.Update(c.Request.Context(), entityID, &req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.cfg.MapToDTO(entity))
}

// Deactivate handles POST /{entity}/:id/deactivate.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO, QueryDTO]) Deactivate(c *gin.Context) {
	entityID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	entity, err := h.cfg.Deactivate(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.cfg.MapToDTO(entity))
}
