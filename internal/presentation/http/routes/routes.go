package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/clock"
	"github.com/sangkips/trimtime-pos/internal/config"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/handler"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Staff    *handler.StaffHandler
	Customer *handler.CustomerHandler
	Settings *handler.SettingsHandler
	Register *handler.RegisterHandler
	Sale     *handler.SaleHandler
	Report   *handler.ReportHandler
	Expense  *handler.ExpenseHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Sessions        *session.Manager
	Cfg             *config.Config
	Clock           clock.Clock
	Logger          *slog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Metrics         http.Handler // served at /metrics when set
	Shell           http.Handler // serves unmatched paths when set
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit))
	}

	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.POST("/auth/login", rateLimiter.Middleware(), h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Sessions))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	// Everything else is the application shell
	if deps.Shell != nil {
		router.NoRoute(gin.WrapH(deps.Shell))
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	admin := middleware.RequireRole(enum.StaffRoleAdmin)

	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", admin, h.Settings.Update)

	registerCollectionRoutes(protected, h, admin)
	registerRegisterRoutes(protected, h, deps)
	registerSaleRoutes(protected, h)

	// Expense ledger and reports
	expenses := protected.Group("/expenses", admin)
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Add)
		expenses.DELETE("/:id", h.Expense.Delete)
	}
	protected.GET("/reports/commissions", admin, h.Report.Commissions)
	protected.GET("/reports/summary", admin, h.Report.Summary)
}

func registerCollectionRoutes(protected *gin.RouterGroup, h *Handlers, admin gin.HandlerFunc) {
	protected.GET("/services", h.Catalog.ListServices)
	protected.PUT("/services", admin, h.Catalog.SaveServices)

	protected.GET("/products", h.Catalog.ListProducts)
	protected.PUT("/products", admin, h.Catalog.SaveProducts)

	protected.GET("/discounts", h.Catalog.ListDiscounts)

	protected.GET("/staff", h.Staff.List)
	protected.PUT("/staff", admin, h.Staff.Save)

	protected.GET("/customers", h.Customer.List)
	protected.PUT("/customers", h.Customer.Save)
	protected.POST("/customers", h.Customer.QuickAdd)
}

func registerRegisterRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	register := protected.Group("/register")
	{
		register.GET("", h.Register.Get)
		register.POST("/lines", h.Register.AddLine)
		register.PATCH("/lines/:kind/:id", h.Register.UpdateLine)
		register.DELETE("/lines/:kind/:id", h.Register.RemoveLine)
		register.PUT("/staff", h.Register.SelectStaff)
		register.PUT("/customer", h.Register.SelectCustomer)
		register.PUT("/discount", h.Register.ApplyDiscount)
		register.POST("/scan", h.Register.Scan)
		register.POST("/hold", h.Register.Hold)
		register.GET("/held", h.Register.ListHeld)
		register.POST("/held/:id/resume", h.Register.Resume)
		// Checkout uses idempotency middleware to prevent duplicate sales
		register.POST("/checkout", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo:  deps.IdempotencyRepo,
			Clock: deps.Clock,
		}), h.Register.Checkout)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/recent", h.Sale.Recent)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/receipt", h.Sale.Receipt)
		sales.POST("/:id/print", h.Sale.Print)
		sales.POST("/:id/share", h.Sale.Share)
	}
	protected.GET("/printer/status", h.Sale.PrinterStatus)
}
