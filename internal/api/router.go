package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/shopfront/storefront-api/internal/api/handler"
	"github.com/shopfront/storefront-api/internal/api/middleware"
	"github.com/shopfront/storefront-api/internal/core/ports"

	_ "github.com/shopfront/storefront-api/docs"
)

// Dependencies carries everything the router wires into handlers and gates.
type Dependencies struct {
	Users        middleware.UserFinder
	Tokens       middleware.TokenVerifier
	AuthService  ports.AuthService
	OrderService ports.OrderService
	// HealthChecks are probed by /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.PingFunc
	// Registerer receives the HTTP request collectors. Nil means the default
	// registry; tests pass a fresh one per router.
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "storefront",
		Subsystem:                 "http",
		Registerer:                registerer(deps.Registerer),
		DoNotUseRequestPathFor404: true,
		StatusCodeResolver:        statusCodeResolver,
	}))

	// --- Gates ---
	authenticate := middleware.Authenticate(deps.Tokens, deps.Users, deps.Logger)
	requireAdmin := middleware.RequireAdmin()

	authHandler := handler.NewAuthHandler(deps.AuthService)
	orderHandler := handler.NewOrderHandler(deps.OrderService)

	v1 := e.Group("/api/v1/auth")

	// --- Auth routes ---
	v1.POST("/register", authHandler.Register)
	v1.POST("/login", authHandler.Login)
	v1.GET("/user-auth", authHandler.Check, authenticate)
	v1.GET("/admin-auth", authHandler.Check, authenticate, requireAdmin)

	// --- Order routes ---
	v1.POST("/orders", orderHandler.Checkout, authenticate)
	v1.GET("/orders", orderHandler.ListMine, authenticate)
	v1.GET("/orders/:orderId", orderHandler.Get, authenticate)
	v1.GET("/all-orders", orderHandler.ListAll, authenticate, requireAdmin)
	v1.PUT("/order-status/:orderId", orderHandler.UpdateStatus, authenticate, requireAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(deps.Registerer),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r prometheus.Registerer) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

// gatherer exposes the domain collectors, which always live in the default
// registry, next to a custom HTTP registry when one is given.
func gatherer(r prometheus.Registerer) prometheus.Gatherer {
	if g, ok := r.(prometheus.Gatherer); ok && r != prometheus.DefaultRegisterer {
		return prometheus.Gatherers{prometheus.DefaultGatherer, g}
	}
	return prometheus.DefaultGatherer
}
