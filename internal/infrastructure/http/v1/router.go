// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"kiosko/internal/app"
	"kiosko/internal/domain/auth"
	"kiosko/internal/infrastructure/http/v1/handlers"
	"kiosko/internal/infrastructure/http/v1/middleware"
	"kiosko/internal/infrastructure/storage/postgres"
	"kiosko/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Services *app.Services

	// Pool is nil when the in-memory store is used.
	Pool *postgres.Pool

	Logger *logger.Logger

	// Location is the shop timezone for date query parameters.
	Location *time.Location

	// ExpiringDays is the default look-ahead of /lots/expiring.
	ExpiringDays int

	// Debug enables gin debug mode.
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	health := handlers.NewHealthHandler(cfg.Pool)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	base := handlers.NewBaseHandler(cfg.Location)
	svc := cfg.Services

	api := router.Group("/api/v1")
	authHandler := handlers.NewAuthHandler(base, svc.Auth)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.Auth(svc.JWT))
	{
		protected.GET("/auth/me", authHandler.Me)
		users := protected.Group("/auth/users", middleware.RequirePermission(auth.PermUsersWrite))
		users.GET("", authHandler.ListUsers)
		users.POST("", authHandler.CreateUser)
		users.POST("/:id/deactivate", authHandler.DeactivateUser)

		registerCatalogRoutes(protected, base, cfg)
		registerDocumentRoutes(protected, base, cfg)
		registerReportRoutes(protected, base, cfg)
	}

	return router
}

func registerCatalogRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	products := handlers.NewProductHandler(base, svc.Products, svc.Lots)
	pg := api.Group("/products")
	// static segments before the catalog's /:id routes
	pg.GET("/low-stock", middleware.RequirePermission(auth.PermProductsRead), products.LowStock)
	pg.GET("/by-code/:code", middleware.RequirePermission(auth.PermProductsRead), products.GetByCode)
	RegisterCatalogRoutes(pg, products, auth.PermProductsRead, auth.PermProductsWrite)
	pg.GET("/:id/lots", middleware.RequirePermission(auth.PermLotsRead), products.Lots)

	suppliers := handlers.NewSupplierHandler(base, svc.Suppliers, svc.Products, svc.Debts)
	sg := api.Group("/suppliers")
	sg.GET("/overdue", middleware.RequirePermission(auth.PermPaymentsRead), suppliers.Overdue)
	RegisterCatalogRoutes(sg, suppliers, auth.PermSuppliersRead, auth.PermSuppliersWrite)
	sg.GET("/:id/debt", middleware.RequirePermission(auth.PermPaymentsRead), suppliers.Debt)
	sg.GET("/:id/products", middleware.RequirePermission(auth.PermProductsRead), suppliers.Products)

	lots := handlers.NewLotHandler(base, svc.Lots, cfg.ExpiringDays)
	lg := api.Group("/lots")
	lg.GET("/expired", middleware.RequirePermission(auth.PermLotsRead), lots.Expired)
	lg.GET("/expiring", middleware.RequirePermission(auth.PermLotsRead), lots.Expiring)
	lg.GET("/:id", middleware.RequirePermission(auth.PermLotsRead), lots.Get)
	lg.DELETE("/:id", middleware.RequirePermission(auth.PermLotsWrite), lots.Delete)
}

func registerDocumentRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	sales := handlers.NewSaleHandler(base, svc.Sales)
	sg := api.Group("/sales")
	sg.GET("", middleware.RequirePermission(auth.PermSalesRead), sales.List)
	sg.POST("", middleware.RequirePermission(auth.PermSalesCreate), sales.Create)
	sg.GET("/by-number/:number", middleware.RequirePermission(auth.PermSalesRead), sales.GetByNumber)
	sg.GET("/:id", middleware.RequirePermission(auth.PermSalesRead), sales.Get)

	purchases := handlers.NewPurchaseHandler(base, svc.Purchases)
	pg := api.Group("/purchases")
	pg.GET("", middleware.RequirePermission(auth.PermPurchasesRead), purchases.List)
	pg.POST("", middleware.RequirePermission(auth.PermPurchasesWrite), purchases.Create)
	pg.GET("/:id", middleware.RequirePermission(auth.PermPurchasesRead), purchases.Get)

	payments := handlers.NewPaymentHandler(base, svc.Payments)
	yg := api.Group("/payments")
	yg.GET("", middleware.RequirePermission(auth.PermPaymentsRead), payments.List)
	yg.POST("", middleware.RequirePermission(auth.PermPaymentsWrite), payments.Create)
	yg.GET("/:id", middleware.RequirePermission(auth.PermPaymentsRead), payments.Get)
}

func registerReportRoutes(api *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	reports := handlers.NewReportHandler(base, svc.Reports)
	rg := api.Group("/reports", middleware.RequirePermission(auth.PermReportsRead))
	rg.GET("/profit", reports.Profit)
	rg.GET("/sales-by-day", reports.SalesByDay)
	rg.GET("/top-products", reports.TopProducts)

	alerts := handlers.NewAlertHandler(base, svc.Alerts)
	api.GET("/alerts", middleware.RequirePermission(auth.PermAlertsRead), alerts.Get)
}
