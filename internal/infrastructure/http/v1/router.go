// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"catalisa/internal/domain/auth"
	"catalisa/internal/domain/dashboard"
	"catalisa/internal/domain/message"
	"catalisa/internal/domain/order"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/internal/domain/product"
	"catalisa/internal/domain/promo"
	"catalisa/internal/domain/settings"
	"catalisa/internal/domain/user"
	"catalisa/internal/infrastructure/http/v1/handlers"
	"catalisa/internal/infrastructure/http/v1/middleware"
	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger
	Tokens *auth.TokenService

	Users     *user.Service
	Levels    *partnerlevel.Service
	Settings  *settings.Service
	Products  *product.Service
	Orders    *order.Service
	Messages  *message.Service
	Promos    *promo.Service
	Dashboard *dashboard.Service
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

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	userHandler := handlers.NewUserHandler(base, cfg.Users, cfg.Tokens)
	productHandler := handlers.NewProductHandler(base, cfg.Products)
	settingsHandler := handlers.NewSettingsHandler(base, cfg.Settings)
	levelHandler := handlers.NewPartnerLevelHandler(base, cfg.Levels)
	orderHandler := handlers.NewOrderHandler(base, cfg.Orders)
	messageHandler := handlers.NewMessageHandler(base, cfg.Messages)
	promoHandler := handlers.NewPromoHandler(base, cfg.Promos)
	dashboardHandler := handlers.NewDashboardHandler(base, cfg.Dashboard)

	v1 := router.Group("/api/v1")
	{
		// Public endpoints: registration, login, promo banners.
		public := v1.Group("")

		// Catalog browsing works anonymously but picks up partner pricing
		// when a token is present.
		browse := v1.Group("")
		browse.Use(middleware.OptionalAuth(cfg.Tokens, cfg.Users))

		// Everything else requires a valid token, with the account reloaded
		// from the database on each request.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.Tokens, cfg.Users))

		userHandler.RegisterRoutes(public, protected)
		productHandler.RegisterRoutes(browse, protected)
		settingsHandler.RegisterRoutes(protected)
		levelHandler.RegisterRoutes(protected)
		orderHandler.RegisterRoutes(protected)
		messageHandler.RegisterRoutes(protected)
		promoHandler.RegisterRoutes(public, protected)
		dashboardHandler.RegisterRoutes(protected)
	}

	return router
}
