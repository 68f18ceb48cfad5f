package router // package router defines how HTTP routes are registered for the API

import (
	"strings"

	"github.com/labstack/echo/v4"            // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // built-in CORS support
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/flea-market/internal/config"
	"github.com/iliyamo/flea-market/internal/handler"
	"github.com/iliyamo/flea-market/internal/middleware"
	"github.com/iliyamo/flea-market/internal/model"
	"github.com/iliyamo/flea-market/internal/repository"
)

// Handlers groups every handler the router wires up. All dependencies are
// constructed in main and passed in explicitly; nothing here reaches for
// globals.
type Handlers struct {
	Auth    *handler.AuthHandler
	Items   *handler.ItemHandler
	Request *handler.RequestHandler
	Rating  *handler.RatingHandler
	Admin   *handler.AdminHandler
}

// Register wires all application routes onto the Echo instance.
//
// Route map:
//
//	public:    GET /healthz, POST /api/register, POST /api/login, GET /api/items
//	bearer:    POST /api/logout, GET /api/protected, POST /api/items,
//	           POST /api/requests, GET /api/requests/sent|received,
//	           PUT /api/requests/:id/status, POST /api/ratings
//	admin:     GET /api/admin/users, POST /api/admin/create_admin_user,
//	           GET /api/admin/requests, DELETE /api/admin/requests/:id
//
// rdb may be nil; rate limiting and response caching then degrade to
// pass-throughs.
func Register(e *echo.Echo, cfg config.Config, h Handlers, tokens *repository.TokenRepo, rdb *redis.Client) {
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: splitOrigins(cfg.CORSOrigins),
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Uniform JSON bodies for anything that falls through the routes.
	e.HTTPErrorHandler = jsonErrorHandler

	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	// Public auth endpoints, throttled per client IP.
	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	api.POST("/register", h.Auth.Register, limit)
	api.POST("/login", h.Auth.Login, limit)

	// Public browse, cached.
	api.GET("/items", h.Items.List, middleware.CacheResponse(config.LoadCacheConfig(), rdb))

	// Everything below requires a valid, non-revoked bearer token.
	auth := api.Group("", middleware.JWTAuth(cfg.JWTSecret, tokens))
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/protected", h.Auth.Protected)
	auth.POST("/items", h.Items.Create)
	auth.POST("/requests", h.Request.Create)
	auth.GET("/requests/sent", h.Request.ListSent)
	auth.GET("/requests/received", h.Request.ListReceived)
	auth.PUT("/requests/:id/status", h.Request.UpdateStatus)
	auth.POST("/ratings", h.Rating.Create)

	// Admin surface: same token check plus the role gate.
	admin := auth.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/create_admin_user", h.Admin.CreateAdmin)
	admin.GET("/requests", h.Admin.ListRequests)
	admin.DELETE("/requests/:id", h.Admin.DeleteRequest)
}

// splitOrigins turns the comma-separated CORS_ORIGINS value into a list.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

// jsonErrorHandler keeps unhandled errors in the same {"msg": ...} shape as
// the handlers and never leaks internals to the client.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := 500
	msg := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if code == 404 || code == 405 {
			msg = "Resource not found"
		}
	}
	_ = c.JSON(code, echo.Map{"msg": msg})
}
