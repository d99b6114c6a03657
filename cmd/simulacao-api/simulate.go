package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/deppfellow/simulacao-api/internal/config"
	"github.com/deppfellow/simulacao-api/internal/errs"
	"github.com/deppfellow/simulacao-api/internal/logger"
	"github.com/deppfellow/simulacao-api/internal/model/simulation"
	"github.com/deppfellow/simulacao-api/internal/server"
	"github.com/deppfellow/simulacao-api/internal/service"
	"github.com/deppfellow/simulacao-api/internal/validation"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errInvalidInput is returned after the field errors were already printed.
var errInvalidInput = errors.New("invalid simulation input")

func newSimulateCmd() *cobra.Command {
	var (
		propertyValue      float64
		downPaymentPercent float64
		contractYears      int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a single simulation and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Flags that were not passed stay nil and fail "required",
			// the same way a missing JSON key does.
			req := &simulation.SimulateRequest{}
			if cmd.Flags().Changed("valor-imovel") {
				req.PropertyValue = &propertyValue
			}
			if cmd.Flags().Changed("percentual-entrada") {
				req.DownPaymentPercent = &downPaymentPercent
			}
			if cmd.Flags().Changed("anos-contrato") {
				years := float64(contractYears)
				req.ContractYears = &years
			}

			return simulate(cmd, req)
		},
	}

	cmd.Flags().Float64Var(&propertyValue, "valor-imovel", 0, "property value (> 0)")
	cmd.Flags().Float64Var(&downPaymentPercent, "percentual-entrada", 0, "down payment percent (5 to 20)")
	cmd.Flags().IntVar(&contractYears, "anos-contrato", 0, "contract length in years (1 to 5)")

	return cmd
}

func simulate(cmd *cobra.Command, req *simulation.SimulateRequest) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// stdout carries the result, so logs go to stderr.
	log := zerolog.New(cmd.ErrOrStderr()).
		Level(logger.ParseLevel(cfg.Observability.GetLogLevel())).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Logger()

	srv, err := server.New(cfg, &log, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")

	if err := validation.ValidatePayload(req); err != nil {
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) {
			return err
		}

		if encErr := encoder.Encode(httpErr); encErr != nil {
			return encErr
		}
		return errInvalidInput
	}

	out := service.NewSimulationService(srv).Compute(req.ToInput())

	return encoder.Encode(out)
}
