package handlers

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/core/apperror"
	appctx "kiosko/internal/core/context"
	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and account endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewLoginResponse(token, user))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	h.OK(c, dto.NewMeResponse(user))
}

// CreateUser handles POST /auth/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromUser(user))
}

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.FromUser(u))
	}
	h.OK(c, gin.H{"items": items})
}

// DeactivateUser handles POST /auth/users/:id/deactivate
func (h *AuthHandler) DeactivateUser(c *gin.Context) {
	userID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.DeactivateUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromUser(user))
}
