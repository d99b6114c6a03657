package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/deppfellow/simulacao-api/internal/model/simulation"
	"github.com/deppfellow/simulacao-api/internal/server"
)

// SimulationService computes financing simulations.
//
// It holds no state besides the shared server container, so a single
// instance serves any number of concurrent requests.
type SimulationService struct {
	server *server.Server
}

func NewSimulationService(s *server.Server) *SimulationService {
	return &SimulationService{
		server: s,
	}
}

// Compute maps a validated input into the simulation output.
//
// Rounding only happens on the returned fields: financed amount and monthly
// installment are derived from the unrounded intermediate values.
func (s *SimulationService) Compute(in simulation.Input) simulation.Output {
	downPayment := in.PropertyValue * (in.DownPaymentPercent / 100)
	financed := in.PropertyValue - downPayment
	totalToSave := in.PropertyValue * simulation.SavingsRate
	installment := totalToSave / float64(in.ContractYears*simulation.MonthsPerYear)

	return simulation.Output{
		DownPaymentAmount:  Round2(downPayment),
		FinancedAmount:     Round2(financed),
		TotalToSave:        Round2(totalToSave),
		MonthlyInstallment: Round2(installment),
	}
}

// referenceInput and referenceOutput are a known-good simulation used by SelfCheck.
var (
	referenceInput = simulation.Input{
		PropertyValue:      200000,
		DownPaymentPercent: 10,
		ContractYears:      5,
	}
	referenceOutput = simulation.Output{
		DownPaymentAmount:  20000,
		FinancedAmount:     180000,
		TotalToSave:        30000,
		MonthlyInstallment: 500,
	}
)

// SelfCheck runs the reference simulation and compares it with the known result.
func (s *SimulationService) SelfCheck() error {
	got := s.Compute(referenceInput)
	if got != referenceOutput {
		return fmt.Errorf("calculator self check: got %+v, expected %+v", got, referenceOutput)
	}

	s.server.Logger.Debug().
		Float64("parcela_mensal", got.MonthlyInstallment).
		Msg("calculator self check passed")

	return nil
}

// Round2 rounds v to 2 decimal places.
//
// The exact binary value of v is rounded, with exact ties going to the even
// digit: 2.675 (stored as 2.67499...) gives 2.67, 0.125 gives 0.12.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
