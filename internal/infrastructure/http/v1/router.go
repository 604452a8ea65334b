package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"tavolo/internal/core/businessday"
	"tavolo/internal/domain"
	"tavolo/internal/domain/catalogs/category"
	"tavolo/internal/domain/catalogs/menuitem"
	"tavolo/internal/domain/dayclose"
	"tavolo/internal/domain/numbering"
	"tavolo/internal/domain/orders"
	"tavolo/internal/domain/reports"
	"tavolo/internal/domain/settings"
	"tavolo/internal/infrastructure/http/v1/handlers"
	"tavolo/internal/infrastructure/http/v1/middleware"
	"tavolo/internal/infrastructure/storage/postgres"
	"tavolo/internal/infrastructure/storage/postgres/catalog_repo"
	"tavolo/internal/infrastructure/storage/postgres/order_repo"
	"tavolo/internal/infrastructure/storage/postgres/report_repo"
	"tavolo/internal/infrastructure/storage/postgres/settings_repo"
	"tavolo/internal/infrastructure/ticket"
	"tavolo/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Audit records entity change history
	Audit *postgres.AuditService

	// Logger for request logging
	Logger *logger.Logger

	// Clock supplies the current time (swappable in tests)
	Clock businessday.Clock

	// Location is the terminal's business-day timezone
	Location *time.Location
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Repositories
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	menuItemRepo := catalog_repo.NewMenuItemRepo(cfg.TxManager)
	orderRepo := order_repo.NewOrderRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)
	settingsRepo := settings_repo.NewSettingsRepo(cfg.TxManager)
	counterStore := settings_repo.NewCounterStore(settingsRepo)

	// Services
	categorySvc := category.NewService(categoryRepo, cfg.TxManager)
	menuItemSvc := menuitem.NewService(menuItemRepo, categoryRepo, cfg.TxManager)
	settingsSvc := settings.NewService(settingsRepo)
	numberingSvc := numbering.NewService(counterStore, cfg.TxManager, cfg.Clock)
	orderSvc := orders.NewService(orderRepo, menuItemRepo, numberingSvc, cfg.TxManager, cfg.Clock, cfg.Location)
	reportSvc := reports.NewService(reportRepo, menuItemRepo, cfg.Location)
	dayCloseSvc := dayclose.NewService(orderRepo, reportRepo, numberingSvc, cfg.TxManager, cfg.Clock, cfg.Location)

	registerAuditHooks(categorySvc, menuItemSvc, cfg.Audit)

	ticketRenderer := ticket.NewRenderer(cfg.Location)

	// API v1
	api := router.Group("/api/v1")
	{
		// Catalogs
		categoryHandler := handlers.NewCategoryHandler(baseHandler, categorySvc)
		categoriesGroup := api.Group("/categories")
		categoriesGroup.GET("/ordered", categoryHandler.ListOrdered)
		RegisterCatalogRoutes(categoriesGroup, categoryHandler)

		menuItemHandler := handlers.NewMenuItemHandler(baseHandler, menuItemSvc)
		menuItemsGroup := api.Group("/menu-items")
		menuItemsGroup.GET("/by-category", menuItemHandler.ListByCategory)
		RegisterCatalogRoutes(menuItemsGroup, menuItemHandler)

		// Orders
		orderHandler := handlers.NewOrderHandler(baseHandler, orderSvc, numberingSvc, settingsSvc, ticketRenderer, cfg.Location)
		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", orderHandler.Checkout)
			ordersGroup.GET("", orderHandler.List)
			ordersGroup.GET("/next-number", orderHandler.NextNumber)
			ordersGroup.POST("/reset-number", orderHandler.ResetNumber)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.PUT("/:id", orderHandler.Update)
			ordersGroup.DELETE("/:id", orderHandler.Delete)
			ordersGroup.POST("/:id/pay", orderHandler.Pay)
			ordersGroup.POST("/:id/cancel", orderHandler.Cancel)
			ordersGroup.GET("/:id/ticket", orderHandler.Ticket)
		}

		// Reports and day close
		reportHandler := handlers.NewReportHandler(baseHandler, reportSvc, dayCloseSvc)
		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("", reportHandler.Range)
			reportsGroup.GET("/aggregate", reportHandler.Aggregate)
			reportsGroup.GET("/csv", reportHandler.ExportCSV)
			reportsGroup.POST("/finalize-day", reportHandler.FinalizeDay)
		}

		// Settings
		settingsHandler := handlers.NewSettingsHandler(baseHandler, settingsSvc)
		settingsGroup := api.Group("/settings")
		{
			settingsGroup.GET("/app", settingsHandler.GetApp)
			settingsGroup.PUT("/app", settingsHandler.PutApp)
			settingsGroup.GET("/:key", settingsHandler.Get)
			settingsGroup.PUT("/:key", settingsHandler.Put)
			settingsGroup.DELETE("/:key", settingsHandler.Delete)
		}

		// Audit history
		auditHandler := handlers.NewAuditHandler(baseHandler, cfg.Audit)
		api.GET("/audit/:entityType/:id", auditHandler.History)
	}

	return router
}

// registerAuditHooks records catalog changes into the audit log. Hooks
// run after the mutation commits, so a failed write never leaves an
// audit entry.
func registerAuditHooks(categorySvc *category.Service, menuItemSvc *menuitem.Service, audit *postgres.AuditService) {
	if audit == nil {
		return
	}

	categorySvc.Hooks().On(domain.AfterCreate, func(ctx context.Context, c *category.Category) error {
		return audit.LogChange(ctx, "category", c.ID, postgres.AuditActionCreate, c)
	})
	categorySvc.Hooks().On(domain.AfterUpdate, func(ctx context.Context, c *category.Category) error {
		return audit.LogChange(ctx, "category", c.ID, postgres.AuditActionUpdate, c)
	})
	categorySvc.Hooks().On(domain.AfterDelete, func(ctx context.Context, c *category.Category) error {
		return audit.LogChange(ctx, "category", c.ID, postgres.AuditActionDelete, nil)
	})

	menuItemSvc.Hooks().On(domain.AfterCreate, func(ctx context.Context, m *menuitem.MenuItem) error {
		return audit.LogChange(ctx, "menu_item", m.ID, postgres.AuditActionCreate, m)
	})
	menuItemSvc.Hooks().On(domain.AfterUpdate, func(ctx context.Context, m *menuitem.MenuItem) error {
		return audit.LogChange(ctx, "menu_item", m.ID, postgres.AuditActionUpdate, m)
	})
	menuItemSvc.Hooks().On(domain.AfterDelete, func(ctx context.Context, m *menuitem.MenuItem) error {
		return audit.LogChange(ctx, "menu_item", m.ID, postgres.AuditActionDelete, nil)
	})
}
