package router

import (
	"github.com/deppfellow/movies-graphql/internal/handler"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the API.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", s.Metrics.Handler())

	r.GET("/playground", h.Playground.ServePlayground)
}
