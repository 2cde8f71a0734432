package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/movies-graphql/internal/middleware"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	CheckDatabase = "database"
	CheckRedis    = "redis"
)

// dependencyCheck probes one dependency. A failing required check turns
// the whole service unhealthy; an optional one is only reported.
type dependencyCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks []dependencyCheck
}

// NewHealthHandler registers the checks enabled in observability config.
// The database is required; Redis only backs rate limiting.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{Handler: NewHandler(s)}

	obs := s.Config.Observability
	if obs == nil {
		return h
	}

	if obs.HasCheck(CheckDatabase) && s.DB != nil {
		h.checks = append(h.checks, dependencyCheck{
			name:     CheckDatabase,
			required: true,
			ping:     s.DB.Pool.Ping,
		})
	}

	if obs.HasCheck(CheckRedis) && s.Redis != nil {
		h.checks = append(h.checks, dependencyCheck{
			name: CheckRedis,
			ping: func(ctx context.Context) error {
				return s.Redis.Ping(ctx).Err()
			},
		})
	}

	return h
}

// CheckHealth returns 200 with per-dependency results, or 503 when a
// required dependency is unreachable.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	isHealthy := true

	for _, check := range h.checks {
		result, err := h.runCheck(c.Request().Context(), check)
		checks[check.name] = result

		if err == nil {
			logger.Debug().Str("check", check.name).Msg("health check passed")
			continue
		}

		if check.required {
			isHealthy = false
		}

		logger.Error().
			Err(err).
			Str("check", check.name).
			Bool("required", check.required).
			Msg("health check failed")

		h.recordHealthCheckError(check.name, err)
	}

	status := "healthy"
	code := http.StatusOK
	if !isHealthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")
	}

	response := map[string]interface{}{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if err := c.JSON(code, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) runCheck(ctx context.Context, check dependencyCheck) (map[string]interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := check.ping(ctx)

	result := map[string]interface{}{
		"status":        "healthy",
		"required":      check.required,
		"response_time": time.Since(checkStart).String(),
	}
	if err != nil {
		result["status"] = "unhealthy"
		result["error"] = err.Error()
	}

	return result, err
}

func (h *HealthHandler) recordHealthCheckError(name string, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":    name,
		"operation":     "health_check",
		"error_type":    name + "_unhealthy",
		"error_message": err.Error(),
	})
}
