// Package router wires HTTP routes to their handlers and per-group
// middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/voyago/travel-planner/internal/config"
	"github.com/voyago/travel-planner/internal/handler"
	"github.com/voyago/travel-planner/internal/middleware"
)

// RegisterRoutes registers routes that need no dependencies beyond the
// Echo instance itself; currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints under /v1/auth plus the
// JWT-protected /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterTrips registers the destination catalog and booking routes.
// The catalog GET sits behind the Redis response cache; booking is rate
// limited. Both middlewares degrade to pass-throughs when rdb is nil.
func RegisterTrips(e *echo.Echo, t *handler.TripHandler, rdb *redis.Client) {
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	g := e.Group("/v1/trips")
	g.GET("/destinations", t.Destinations, cacheMW)
	g.POST("/book", t.Book, limitMW)
}

// RegisterUser registers the per-user reservation and profile routes.
// These keep the explicit userId parameter of the original client
// contract rather than deriving it from a token.
func RegisterUser(e *echo.Echo, r *handler.ReservationHandler, p *handler.ProfileHandler) {
	g := e.Group("/v1/user")
	g.GET("/reservations", r.List)
	g.POST("/cancel-reservation", r.Cancel)
	g.POST("/update-profile", p.UpdateProfile)
}
