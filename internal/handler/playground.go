package handler

import (
	_ "embed"
	"net/http"

	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/labstack/echo/v4"
)

// playgroundPage is the GraphiQL page served at /playground.
//
//go:embed web/playground.html
var playgroundPage []byte

// PlaygroundHandler serves an in-browser GraphQL IDE pointed at /graphql.
type PlaygroundHandler struct {
	Handler
	page []byte
}

func NewPlaygroundHandler(s *server.Server) *PlaygroundHandler {
	return &PlaygroundHandler{
		Handler: NewHandler(s),
		page:    playgroundPage,
	}
}

// ServePlayground writes the GraphiQL page, or 404 when the playground is
// disabled in config.
func (h *PlaygroundHandler) ServePlayground(c echo.Context) error {
	if !h.server.Config.GraphQL.Playground {
		return echo.ErrNotFound
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	return c.HTMLBlob(http.StatusOK, h.page)
}
