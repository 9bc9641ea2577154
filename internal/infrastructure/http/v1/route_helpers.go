package v1

import (
	"github.com/gin-gonic/gin"

	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the endpoints shared by catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Deactivate(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard catalog routes. Reads need read,
// everything that changes the catalog needs write.
//
// Usage:
//
//	handler := handlers.NewSupplierHandler(base, svc.Suppliers, svc.Products, svc.Debts)
//	RegisterCatalogRoutes(api.Group("/suppliers"), handler, auth.PermSuppliersRead, auth.PermSuppliersWrite)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, read, write auth.Permission) {
	group.GET("", middleware.RequirePermission(read), handler.List)
	group.POST("", middleware.RequirePermission(write), handler.Create)
	group.GET("/:id", middleware.RequirePermission(read), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(write), handler.Update)
	group.POST("/:id/deactivate", middleware.RequirePermission(write), handler.Deactivate)
}
