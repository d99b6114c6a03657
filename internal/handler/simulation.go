package handler

import (
	"net/http"

	"github.com/deppfellow/simulacao-api/internal/model/simulation"
	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/deppfellow/simulacao-api/internal/service"
	"github.com/labstack/echo/v4"
)

// SimulationHandler serves POST /simulacao.
type SimulationHandler struct {
	Handler
	simulationService *service.SimulationService
}

func NewSimulationHandler(s *server.Server, simulationService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{
		Handler:           NewHandler(s),
		simulationService: simulationService,
	}
}

// Simulate binds and validates the request body, then runs the calculator.
// Any validation failure surfaces as a 422 through the global error handler.
func (h *SimulationHandler) Simulate() echo.HandlerFunc {
	return Handle(
		h.Handler,
		func(c echo.Context, req *simulation.SimulateRequest) (simulation.Output, error) {
			return h.simulationService.Compute(req.ToInput()), nil
		},
		http.StatusOK,
		func() *simulation.SimulateRequest { return &simulation.SimulateRequest{} },
	)
}
