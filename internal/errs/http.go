// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for invalid inputs or HTTPError for API responses)
// to ensure the client receive meaningful, actionable, and consistent
// error messages.
//
// - Return consistent error shapes to API clients (JSON).
// - Support field-level validation errors for the simulation form.
// - Provide errors that play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "anos_contrato", "error": "must not exceed 5" }
type FieldError struct {
	// Field is the JSON field name the error relates to (e.g. "valor_imovel").
	Field string `json:"field"`

	// Error is the human-readable violated constraint.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error().
// It is designed to be serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "UNPROCESSABLE_ENTITY").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: tells the client the message is safe to display as is.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
// It returns the Message, so printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// This does NOT compare Code/Status/etc.
// It only checks whether the other thing is the same *type* (*HTTPError).
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// Field returns the error attached to the given field, if any.
func (e *HTTPError) Field(name string) (FieldError, bool) {
	for _, fieldErr := range e.Errors {
		if fieldErr.Field == name {
			return fieldErr, true
		}
	}
	return FieldError{}, false
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Unprocessable Entity" -> "UNPROCESSABLE_ENTITY"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
