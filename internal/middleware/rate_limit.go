package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/deppfellow/movies-graphql/internal/config"
	"github.com/deppfellow/movies-graphql/internal/errs"
	"github.com/deppfellow/movies-graphql/internal/metrics"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
)

const (
	RateLimitLimitHeader     = "X-RateLimit-Limit"
	RateLimitRemainingHeader = "X-RateLimit-Remaining"
	RateLimitResetHeader     = "X-RateLimit-Reset"

	rateLimitKeyPrefix = "movies:ratelimit"
)

// RateLimitMiddleware is a fixed-window limiter keyed by client IP.
// Counters live in Redis so every replica shares the same budget.
type RateLimitMiddleware struct {
	client  redis.Cmdable
	cfg     config.RateLimitConfig
	metrics *metrics.Metrics
	nrApp   *newrelic.Application
	now     func() time.Time
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	var client redis.Cmdable
	if s.Redis != nil {
		client = s.Redis
	}

	return &RateLimitMiddleware{
		client:  client,
		cfg:     s.Config.RateLimit,
		metrics: s.Metrics,
		nrApp:   s.LoggerService.GetApplication(),
		now:     time.Now,
	}
}

// Limit counts each request against the current window. Over the limit it
// returns a 429 with Retry-After. Redis errors let the request through.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	if !r.cfg.Enabled || r.client == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := r.now()
			windowStart := now.Truncate(r.cfg.Window)
			resetAt := windowStart.Add(r.cfg.Window)
			key := rateLimitKey(c.RealIP(), windowStart)

			count, err := r.client.Incr(ctx, key).Result()
			if err != nil {
				GetLogger(c).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			if count == 1 {
				if err := r.client.Expire(ctx, key, r.cfg.Window).Err(); err != nil {
					GetLogger(c).Warn().Err(err).Str("key", key).Msg("failed to set rate limit window expiry")
				}
			}

			header := c.Response().Header()
			header.Set(RateLimitLimitHeader, strconv.Itoa(r.cfg.Requests))
			header.Set(RateLimitRemainingHeader, strconv.FormatInt(max(int64(r.cfg.Requests)-count, 0), 10))
			header.Set(RateLimitResetHeader, strconv.FormatInt(resetAt.Unix(), 10))

			if count > int64(r.cfg.Requests) {
				retryAfter := strconv.Itoa(int(math.Ceil(resetAt.Sub(now).Seconds())))
				header.Set(echo.HeaderRetryAfter, retryAfter)

				r.RecordRateLimitHit(c.Path())
				GetLogger(c).Warn().Int64("count", count).Msg("rate limit exceeded")

				return errs.NewTooManyRequestsError(retryAfter)
			}

			return next(c)
		}
	}
}

// RecordRateLimitHit counts a rejected request in Prometheus and, when
// enabled, as a New Relic custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	r.metrics.RecordRateLimitHit()

	if r.nrApp != nil {
		r.nrApp.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}

func rateLimitKey(ip string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rateLimitKeyPrefix, ip, windowStart.Unix())
}
