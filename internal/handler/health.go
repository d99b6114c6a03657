package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/simulacao-api/internal/middleware"
	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/labstack/echo/v4"
)

// SelfChecker is a dependency that can verify itself, e.g. the calculator
// running its reference simulation.
type SelfChecker interface {
	SelfCheck() error
}

// HealthHandler exposes a "system" endpoint that external systems can use to verify
// the service is alive and able to compute simulations.
type HealthHandler struct {
	Handler
	calculator SelfChecker
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server, calculator SelfChecker) *HealthHandler {
	return &HealthHandler{
		Handler:    NewHandler(s),
		calculator: calculator,
	}
}

// CheckHealth returns system health status and dependency checks.
//
// Response includes:
// - overall status (healthy/unhealthy)
// - timestamp (UTC)
// - environment (from config)
// - checks map (calculator)
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true

	// ---------------- Calculator check ---------------------------------------
	if h.server.Config.Observability.HealthCheckEnabled("calculator") {
		checkStart := time.Now()

		if err := h.runCalculatorCheck(c.Request().Context()); err != nil {
			checks["calculator"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(checkStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(checkStart)).
				Msg("calculator health check failed")

			h.server.RecordCustomEvent("HealthCheckError", map[string]interface{}{
				"check_type":       "calculator",
				"operation":        "health_check",
				"error_type":       "calculator_unhealthy",
				"response_time_ms": time.Since(checkStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks["calculator"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(checkStart).String(),
			}

			logger.Debug().
				Dur("response_time", time.Since(checkStart)).
				Msg("calculator health check passed")
		}
	}

	// ---------------- Overall status + response ------------------------------
	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.server.RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// runCalculatorCheck runs the calculator self check bounded by the configured timeout.
func (h *HealthHandler) runCalculatorCheck(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- h.calculator.SelfCheck()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("calculator check timed out: %w", ctx.Err())
	}
}
