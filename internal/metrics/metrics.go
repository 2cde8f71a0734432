// Package metrics owns the Prometheus registry of the service and the
// collectors recorded by the HTTP layer, the GraphQL resolvers and the
// rate limiter.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/deppfellow/movies-graphql/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes used for the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// GraphQLMetrics is recorded once per resolved root field.
type GraphQLMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// Metrics groups every collector of the service around a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	GraphQL GraphQLMetrics

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimitHits       prometheus.Counter
}

// New builds the collectors, prefixed with namespace, and registers them
// together with the Go runtime and process collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
	}

	m.GraphQL = GraphQLMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphql_operations_total",
				Help:      "Total GraphQL operations",
			},
			[]string{"operation", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graphql_operation_duration_seconds",
				Help:      "GraphQL operation duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	m.rateLimitHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Requests rejected by the rate limiter",
	})

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GraphQL.Operations,
		m.GraphQL.Duration,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.rateLimitHits,
	)

	return m
}

// ObserveOperation records one GraphQL operation that started at start.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	m.GraphQL.Operations.WithLabelValues(operation, status).Inc()
	m.GraphQL.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit() {
	if m == nil {
		return
	}
	m.rateLimitHits.Inc()
}

// Middleware records the count and latency of every HTTP request by route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusFromError(err)
			}

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unknown"
			}

			m.httpRequestsTotal.WithLabelValues(c.Request().Method, endpoint, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(c.Request().Method, endpoint).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// statusFromError predicts the status the global error handler will write,
// since the response is not committed yet when a handler returns an error.
func statusFromError(err error) int {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code
	}

	return http.StatusInternalServerError
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
