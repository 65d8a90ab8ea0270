// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sarops/missionline/internal/config"
	"github.com/sarops/missionline/internal/handler"
	"github.com/sarops/missionline/internal/middleware"
)

// Register wires every route of the service onto the provided Echo
// instance.  Reads are rate limited by client IP; mutations require an
// operator bearer token and are rate limited per operator, which is why
// the limiter runs after auth on that group.  The health check stays
// outside both.
func Register(e *echo.Echo, events *handler.EventHandler, roster *handler.RosterHandler,
	jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {

	e.GET("/healthz", handler.Health)

	api := e.Group("/api")

	// Reads are open to any caller on the dispatch network.
	reads := api.Group("")
	reads.Use(middleware.RateLimit(rlCfg, rdb))
	reads.GET("/events", events.List)
	reads.GET("/events/:id", events.Get)
	reads.GET("/roster", roster.List)

	// Mutations need an authenticated operator.
	ops := api.Group("")
	ops.Use(middleware.OperatorAuth(jwtSecret))
	ops.Use(middleware.RateLimit(rlCfg, rdb))
	ops.POST("/events", events.Create)
	ops.PUT("/events", events.Update)
	ops.POST("/events/:id/close", events.Close)
	ops.POST("/events/:id/reopen", events.Reopen)
	ops.POST("/events/:fromId/merge/:intoId", events.Merge)
	ops.POST("/roster", roster.Create)
	ops.PUT("/roster", roster.Update)
	ops.POST("/roster/:id/reassign/:eventId", roster.Reassign)
}
