package router

import (
	"github.com/deppfellow/simulacao-api/internal/handler"
	"github.com/deppfellow/simulacao-api/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the simulation itself:
// health, the docs UI and the embedded docs assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Used by container orchestrators and uptime monitors.
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html, embedded in the binary.
	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
