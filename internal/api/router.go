package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sweetshop/sweetshop-api/internal/api/handler"
	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/api/middleware"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"

	_ "github.com/sweetshop/sweetshop-api/docs"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Log       zerolog.Logger
	Auth      ports.AuthService
	Sweets    ports.SweetService
	Inventory ports.InventoryService

	// Registry receives both the HTTP and the business metrics and is served
	// on /metrics.
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// Probes are pinged by /health/ready, keyed by dependency name.
	Probes map[string]handler.Pinger

	Version               string
	CORSOrigins           []string
	AdminBootstrapEnabled bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sweetshop",
		Registerer: d.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Metrics, d.AdminBootstrapEnabled)
	sweetHandler := handler.NewSweetHandler(d.Sweets, d.Metrics)
	inventoryHandler := handler.NewInventoryHandler(d.Inventory, d.Metrics)
	healthHandler := handler.NewHealthHandler(d.Version, d.Probes)

	authenticated := middleware.Authenticate(d.Auth)
	adminOnly := middleware.RequireAdmin(d.Auth)

	// --- Service info (no auth required) ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/create-admin", authHandler.CreateAdmin)
	auth.GET("/me", authHandler.Me, authenticated)
	auth.PUT("/me", authHandler.UpdateMe, authenticated)

	// --- Catalog routes ---
	sweets := api.Group("/sweets")
	for _, root := range []string{"", "/"} {
		sweets.GET(root, sweetHandler.List)
		sweets.POST(root, sweetHandler.Create, adminOnly)
	}
	sweets.GET("/search", sweetHandler.Search)
	sweets.GET("/categories/list", sweetHandler.Categories)
	sweets.GET("/:id", sweetHandler.Get)
	sweets.PUT("/:id", sweetHandler.Update, adminOnly)
	sweets.DELETE("/:id", sweetHandler.Delete, adminOnly)

	// --- Inventory routes ---
	inventory := api.Group("/inventory")
	inventory.POST("/purchase", inventoryHandler.Purchase, authenticated)
	inventory.POST("/restock/:sweet_id", inventoryHandler.Restock, adminOnly)
	inventory.GET("/purchases/my", inventoryHandler.MyPurchases, authenticated)

	return e
}
