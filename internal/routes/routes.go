package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/yourorg/pixieauth/internal/handlers"
	"github.com/yourorg/pixieauth/internal/middleware"
)

// Route is one entry of the routing table.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// Deps are the handlers and settings the routes are built from.
type Deps struct {
	Auth        *handlers.AuthHandler
	Status      *handlers.StatusHandler
	CORSOrigins []string
	Logger      *zap.Logger
}

// Table lists every endpoint of the service. Paths are relative to /auth.
func Table(d Deps) []Route {
	return []Route{
		{fiber.MethodPost, "/register", d.Auth.Register},
		{fiber.MethodPost, "/login", d.Auth.Login},
		{fiber.MethodGet, "/users", d.Auth.ListUsers},
		{fiber.MethodGet, "/users/search", d.Auth.SearchUsers},
		{fiber.MethodGet, "/hello", handlers.Hello},
		{fiber.MethodGet, "/health", handlers.Health},
		{fiber.MethodGet, "/status", d.Status.Status},
	}
}

// Register installs the middleware chain and the routing table on app.
func Register(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// ============================================================================
	// MIDDLEWARE
	// ============================================================================
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	// inside the logger so recovered panics are logged as 500s
	app.Use(recover.New())

	origins := strings.Join(d.CORSOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	// ============================================================================
	// AUTH
	// ============================================================================
	authGroup := app.Group("/auth")
	for _, r := range Table(d) {
		authGroup.Add(r.Method, r.Path, r.Handler)
	}
}
