// Package service contains the business logic.
//
// It sits between the handler layer and the model types.
// It receives validated data from the handler and performs
// the financing computation. There is no repository layer:
// nothing is persisted between requests.
package service

import (
	"github.com/deppfellow/simulacao-api/internal/server"
)

type Services struct {
	Simulation *SimulationService
}

func NewServices(s *server.Server) (*Services, error) {
	return &Services{
		Simulation: NewSimulationService(s),
	}, nil
}
