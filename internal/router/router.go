package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fitness-class-booking/internal/config"
	"github.com/iliyamo/fitness-class-booking/internal/handler"
	"github.com/iliyamo/fitness-class-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently the health check and user registration.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)
	// Registration is open: anyone may create an account.
	e.POST("/register", a.Register)

	// Session lifecycle endpoints live under /auth. Login exchanges
	// credentials for a token pair; refresh rotates it; logout revokes
	// a session by its refresh token.
	g := e.Group("/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterAPI registers the bearer-token protected endpoints. The
// class listing additionally goes through the Redis response cache;
// with no Redis client available the cache middleware is a no-op.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, cls *handler.ClassHandler,
	b *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {

	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	auth.GET("/classes", cls.GetClasses, cacheMW)

	auth.POST("/book", b.BookClass)
	auth.GET("/bookings", b.GetBookings)
	auth.GET("/me", a.Me)
}
