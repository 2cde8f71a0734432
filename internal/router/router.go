// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps the GraphQL endpoint
// and the system routes to their handlers
package router

import (
	"net"
	"net/http"

	"github.com/deppfellow/movies-graphql/internal/handler"
	"github.com/deppfellow/movies-graphql/internal/middleware"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain.
//
// Order matters: RequestID feeds ContextEnhancer, the New Relic
// transaction must exist before EnhanceTracing and ContextEnhancer read
// it, and RequestLogger sits outside Recover so panics are logged with
// their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	router.IPExtractor = clientIPExtractor(s.Config.Server.TrustedProxies)

	router.Use(
		mw.Global.CORS(),
		mw.Global.Secure(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		s.Metrics.Middleware(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	router.POST("/graphql",
		handler.Handle(h.GraphQL.Handler, h.GraphQL.Execute, http.StatusOK, &handler.GraphQLRequest{}),
		mw.RateLimit.Limit(),
	)

	return router
}

// clientIPExtractor honours X-Forwarded-For only from the trusted proxy
// ranges. With none configured the TCP peer is the client, so a spoofed
// header cannot change the rate limit key.
func clientIPExtractor(trustedProxies []string) echo.IPExtractor {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect()
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		// Ranges are validated by config.LoadConfig.
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			opts = append(opts, echo.TrustIPRange(ipNet))
		}
	}

	return echo.ExtractIPFromXFFHeader(opts...)
}
