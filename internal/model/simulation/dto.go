package simulation

import (
	"github.com/deppfellow/simulacao-api/internal/validation"
)

var validate = validation.New()

// SimulateRequest is the body of POST /simulacao.
//
// Fields are pointers so a missing key ("required") can be told apart
// from an explicit zero (which then fails the range rules).
//
// ContractYears decodes as a number so integral values written as 5.0 or
// 5e0 are accepted; "whole" rejects anything with a fractional part.
type SimulateRequest struct {
	PropertyValue      *float64 `json:"valor_imovel" validate:"required,gt=0"`
	DownPaymentPercent *float64 `json:"percentual_entrada" validate:"required,min=5,max=20"`
	ContractYears      *float64 `json:"anos_contrato" validate:"required,whole,min=1,max=5"`
}

// Validate implements validation.Validatable.
func (r *SimulateRequest) Validate() error {
	return validate.Struct(r)
}

// ToInput converts a validated request into the calculator input.
// It must only be called after Validate returned nil.
func (r *SimulateRequest) ToInput() Input {
	return Input{
		PropertyValue:      *r.PropertyValue,
		DownPaymentPercent: *r.DownPaymentPercent,
		ContractYears:      int(*r.ContractYears),
	}
}

// NewSimulateRequest builds a request from plain values, e.g. CLI flags.
func NewSimulateRequest(propertyValue, downPaymentPercent float64, contractYears int) *SimulateRequest {
	years := float64(contractYears)

	return &SimulateRequest{
		PropertyValue:      &propertyValue,
		DownPaymentPercent: &downPaymentPercent,
		ContractYears:      &years,
	}
}
