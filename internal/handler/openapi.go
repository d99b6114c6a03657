package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the OpenAPI UI for testing the API.
//
// The UI is a static HTML page (openapi.html) that loads its JS from a CDN
// and reads openapi.json from /static.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

// NewOpenAPIHandler constructs an OpenAPIHandler reading from the given asset FS.
func NewOpenAPIHandler(s *server.Server, assets fs.FS) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  assets,
	}
}

// ServeOpenAPIUI serves openapi.html as an HTML response.
//
// Cache-Control is set to "no-cache" so clients do not reuse old docs UI.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := fs.ReadFile(h.assets, "openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTMLBlob(http.StatusOK, templateBytes); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
