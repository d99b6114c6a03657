// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/simulacao-api/internal/handler"
	"github.com/deppfellow/simulacao-api/internal/middleware"
	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware chain and routes.
//
// Order matters: request IDs must exist before tracing and the context
// logger read them, and Recover sits last so panics inside handlers are
// turned into errors that the logger and error handler still see.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	router.POST("/simulacao", h.Simulation.Simulate(), middlewares.RateLimit.Limit())

	return router
}
