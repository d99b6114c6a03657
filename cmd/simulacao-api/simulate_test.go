package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/simulacao-api/internal/errs"
	"github.com/deppfellow/simulacao-api/internal/model/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func TestSimulateCmd_PrintsResult(t *testing.T) {
	out, err := runCLI(t, "simulate",
		"--valor-imovel", "350000",
		"--percentual-entrada", "7.5",
		"--anos-contrato", "3",
	)
	require.NoError(t, err)

	var got simulation.Output
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, simulation.Output{
		DownPaymentAmount:  26250,
		FinancedAmount:     323750,
		TotalToSave:        52500,
		MonthlyInstallment: 1458.33,
	}, got)
}

func TestSimulateCmd_OutOfRange(t *testing.T) {
	out, err := runCLI(t, "simulate",
		"--valor-imovel", "200000",
		"--percentual-entrada", "25",
		"--anos-contrato", "5",
	)
	require.ErrorIs(t, err, errInvalidInput)

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal([]byte(out), &httpErr))

	assert.Equal(t, 422, httpErr.Status)
	fieldErr, ok := httpErr.Field("percentual_entrada")
	require.True(t, ok)
	assert.Equal(t, "must not exceed 20", fieldErr.Error)
}

func TestSimulateCmd_MissingFlags(t *testing.T) {
	out, err := runCLI(t, "simulate", "--valor-imovel", "200000")
	require.ErrorIs(t, err, errInvalidInput)

	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal([]byte(out), &httpErr))

	for _, field := range []string{"percentual_entrada", "anos_contrato"} {
		fieldErr, ok := httpErr.Field(field)
		require.True(t, ok, field)
		assert.Equal(t, "is required", fieldErr.Error)
	}

	_, ok := httpErr.Field("valor_imovel")
	assert.False(t, ok)
}
