// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"io/fs"

	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/deppfellow/simulacao-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers,
// so router setup passes one object around instead of many.
type Handlers struct {
	Simulation *SimulationHandler // Simulation serves POST /simulacao.
	Health     *HealthHandler     // Health serves the service health endpoint.
	OpenAPI    *OpenAPIHandler    // OpenAPI serves API documentation.
}

// NewHandlers constructs the handler container.
//
// Parameters:
// - s: application container (logger/config/etc.)
// - services: business layer container
// - assets: filesystem holding openapi.html / openapi.json
func NewHandlers(s *server.Server, services *service.Services, assets fs.FS) *Handlers {
	return &Handlers{
		Simulation: NewSimulationHandler(s, services.Simulation),
		Health:     NewHealthHandler(s, services.Simulation),
		OpenAPI:    NewOpenAPIHandler(s, assets),
	}
}
