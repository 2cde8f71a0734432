package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/movies-graphql/internal/config"
	"github.com/deppfellow/movies-graphql/internal/graph"
	"github.com/deppfellow/movies-graphql/internal/handler"
	"github.com/deppfellow/movies-graphql/internal/metrics"
	"github.com/deppfellow/movies-graphql/internal/middleware"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/deppfellow/movies-graphql/internal/service"
	"github.com/deppfellow/movies-graphql/internal/testutil"
	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return newConfiguredRouter(t, func(*server.Server) {})
}

func newConfiguredRouter(t *testing.T, configure func(s *server.Server)) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			GraphQL:       config.GraphQLConfig{MaxDepth: 10, MaxParallelism: 10},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:  &logger,
		Metrics: metrics.New(config.ServiceName),
	}
	configure(s)

	resolver := graph.NewResolver(service.NewMovieService(testutil.NewMovieStore()), s.Metrics)
	schema, err := graph.NewSchema(s.Config.GraphQL, resolver, s.Logger)
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, schema))
}

func serve(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGraphQLRoute(t *testing.T) {
	e := newTestRouter(t)

	rec := serve(e, http.MethodPost, "/graphql", `{"query":"mutation { createMovie(options: {title: \"Heat\", minutes: 170}) { id } }"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"createMovie":{"id":1}}}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	serve(e, http.MethodPost, "/graphql", `{"query":"{ movies { id } }"}`)

	rec = serve(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `movies_graphql_operations_total{operation="movies",status="success"} 1`)
	assert.Contains(t, rec.Body.String(), `movies_http_requests_total{endpoint="/graphql",method="POST",status="200"} 1`)

	rec = serve(e, http.MethodGet, "/playground", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/graphiql", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestGraphQLRouteOnlyAcceptsPost(t *testing.T) {
	e := newTestRouter(t)

	rec := serve(e, http.MethodGet, "/graphql", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPlaygroundRouteServesEmbeddedPage(t *testing.T) {
	e := newConfiguredRouter(t, func(s *server.Server) {
		s.Config.GraphQL.Playground = true
	})

	rec := serve(e, http.MethodGet, "/playground", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GraphiQL")
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	db, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = db.Close() })

	window := 24 * time.Hour
	e := newConfiguredRouter(t, func(s *server.Server) {
		s.Redis = db
		s.Config.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: window}
	})

	key := fmt.Sprintf("movies:ratelimit:192.0.2.1:%d", time.Now().Truncate(window).Unix())
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpire(key, window).SetVal(true)
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectIncr(key).SetVal(3)

	var codes []int
	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ movies { id } }"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, forwarded)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientIPExtractor(t *testing.T) {
	tests := []struct {
		name           string
		trustedProxies []string
		remoteAddr     string
		forwardedFor   string
		want           string
	}{
		{
			name:         "no trusted proxies uses peer address",
			remoteAddr:   "192.0.2.1:4242",
			forwardedFor: "203.0.113.9",
			want:         "192.0.2.1",
		},
		{
			name:           "trusted proxy forwards client address",
			trustedProxies: []string{"192.0.2.0/24"},
			remoteAddr:     "192.0.2.1:4242",
			forwardedFor:   "203.0.113.9",
			want:           "203.0.113.9",
		},
		{
			name:           "untrusted peer cannot forward",
			trustedProxies: []string{"198.51.100.0/24"},
			remoteAddr:     "192.0.2.1:4242",
			forwardedFor:   "203.0.113.9",
			want:           "192.0.2.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set(echo.HeaderXForwardedFor, tt.forwardedFor)

			assert.Equal(t, tt.want, clientIPExtractor(tt.trustedProxies)(req))
		})
	}
}
