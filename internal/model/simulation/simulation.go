// Package simulation holds the data shapes of the financing simulation:
// the validated input, the computed output and the HTTP request payload
// that is bound and validated into an Input.
package simulation

const (
	// MinDownPaymentPercent and MaxDownPaymentPercent bound the down payment, inclusive.
	MinDownPaymentPercent = 5
	MaxDownPaymentPercent = 20

	// MinContractYears and MaxContractYears bound the contract duration, inclusive.
	MinContractYears = 1
	MaxContractYears = 5

	// SavingsRate is the share of the property value to be saved,
	// regardless of the chosen down payment.
	SavingsRate = 0.15

	// MonthsPerYear converts contract years into installments.
	MonthsPerYear = 12
)

// Input is a validated simulation request.
//
// Invariants (enforced by SimulateRequest.Validate before an Input exists):
//   - PropertyValue > 0
//   - MinDownPaymentPercent <= DownPaymentPercent <= MaxDownPaymentPercent
//   - MinContractYears <= ContractYears <= MaxContractYears
type Input struct {
	PropertyValue      float64
	DownPaymentPercent float64
	ContractYears      int
}

// Output is the result of a simulation. Every amount is rounded to 2 decimals.
type Output struct {
	DownPaymentAmount  float64 `json:"valor_entrada"`
	FinancedAmount     float64 `json:"valor_financiado"`
	TotalToSave        float64 `json:"total_a_guardar"`
	MonthlyInstallment float64 `json:"parcela_mensal"`
}
