package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/greenops/carbon-management/docs"
	"github.com/greenops/carbon-management/internal/api/handler"
	"github.com/greenops/carbon-management/internal/api/middleware"
	"github.com/greenops/carbon-management/internal/core/domain"
	"github.com/greenops/carbon-management/internal/core/ports"
	"github.com/greenops/carbon-management/internal/infrastructure/http/handlers"
)

// Deps is everything the router needs. RateLimiter may be nil to disable
// rate limiting; Registry may be nil to use the default Prometheus registry.
type Deps struct {
	Log         zerolog.Logger
	Production  bool
	CORSOrigins []string

	Tokens            ports.TokenVerifier
	Audit             ports.AuditRecorder
	Auth              ports.AuthService
	Carbon            ports.CarbonService
	Devices           ports.DeviceService
	RegistrationRoles domain.RoleSet

	RateLimiter middleware.WindowCounter
	RateLimit   middleware.RateLimitConfig

	Readiness map[string]handlers.Pinger
	Registry  *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Carbon Management API
// @version                     1.0
// @description                 Carbon emission records, devices and maintenance tracking.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Deps) *echo.Echo {
	if d.Audit == nil {
		d.Audit = ports.NopAuditRecorder{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Production)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.DefaultSecureConfig))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{AllowOrigins: origins}))
	e.Use(echomiddleware.BodyLimit("10M"))

	// --- Metrics and docs ---
	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "http"}
	handlerCfg := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		handlerCfg.Gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(handlerCfg))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.RegistrationRoles)
	carbonHandler := handler.NewCarbonHandler(d.Carbon)
	adminHandler := handler.NewAdminHandler(d.Carbon, d.Auth)
	deviceHandler := handler.NewDeviceHandler(d.Devices)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness, d.Production)

	authenticate := middleware.Auth(d.Tokens, d.Audit)
	userTier := middleware.RBAC(domain.UserTier, d.Audit)
	reviewerTier := middleware.RBAC(domain.ReviewerTier, d.Audit)
	adminTier := middleware.RBAC(domain.AdminTier, d.Audit)

	api := e.Group("/api")

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Auth routes ---
	auth := api.Group("/auth")
	var limited []echo.MiddlewareFunc
	if d.RateLimiter != nil {
		limited = append(limited, middleware.RateLimit(d.RateLimiter, d.RateLimit, d.Audit, d.Log))
	}
	auth.POST("/register", authHandler.Register, limited...)
	auth.POST("/login", authHandler.Login, limited...)
	auth.GET("/profile", authHandler.Profile, authenticate)

	// --- Carbon records (user tier) ---
	carbon := api.Group("/carbon", authenticate, userTier)
	carbon.POST("", carbonHandler.Create)
	carbon.GET("/my-data", carbonHandler.ListMine)
	carbon.GET("/:id", carbonHandler.Get)
	carbon.PUT("/:id", carbonHandler.Update)
	carbon.DELETE("/:id", carbonHandler.Delete)

	// --- Admin reporting ---
	admin := api.Group("/admin", authenticate)
	admin.GET("/all-carbon-data", adminHandler.AllCarbonData, reviewerTier)
	admin.GET("/user-carbon-data/:userId", adminHandler.UserCarbonData, reviewerTier)
	admin.GET("/carbon-stats", adminHandler.CarbonStats, reviewerTier)
	admin.GET("/users", adminHandler.Users, adminTier)

	// --- Devices (user tier) ---
	devices := api.Group("/devices", authenticate, userTier)
	devices.GET("", deviceHandler.List)
	devices.GET("/maintenance/stats", deviceHandler.MaintenanceStats)
	devices.POST("/maintenance", deviceHandler.CreateMaintenance)
	devices.GET("/:id", deviceHandler.Get)
	devices.GET("/:id/maintenance", deviceHandler.Maintenance)
	devices.PUT("/:id/status", deviceHandler.UpdateStatus)

	return e
}
