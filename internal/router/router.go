// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/afterclass/lesson-booking/internal/config"
	"github.com/afterclass/lesson-booking/internal/handler"
	"github.com/afterclass/lesson-booking/internal/middleware"
)

// Register attaches every route to the Echo instance. The catalog read
// endpoints sit behind the response cache; everything shares the rate
// limiter. The Redis client may be nil, in which case both middlewares
// become pass-through.
func Register(e *echo.Echo, catalog *handler.CatalogHandler, orders *handler.OrderHandler, admin *handler.AdminHandler, rdb *redis.Client) {
	e.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	cached := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/lessons", catalog.GetLessons, cached)
	e.GET("/lessons/:id", catalog.GetLesson, cached)
	e.GET("/search", catalog.SearchLessons, cached)

	e.POST("/orders", orders.PlaceOrder)
	e.GET("/orders", orders.ListOrders)

	// Admin mutation. Capacity safety lives in the store layer, not here:
	// the conditional update guards spaces regardless of the caller.
	e.PUT("/lessons/:id", admin.UpdateLesson)
}
