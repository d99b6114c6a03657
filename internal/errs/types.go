package errs

import (
	"net/http"
)

// NewUnprocessableEntityError creates a 422 Unprocessable Entity HTTPError.
//
// This is the single error kind of the simulation endpoint: a field is
// missing, has the wrong type, or is outside its allowed range.
//   - errors: field errors (field name + violated constraint)
func NewUnprocessableEntityError(message string, override bool, errors []FieldError) *HTTPError {
	return &HTTPError{
		// http.StatusText(422) => "Unprocessable Entity" => "UNPROCESSABLE_ENTITY"
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnprocessableEntity)),
		Message:  message,
		Status:   http.StatusUnprocessableEntity,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// code is an optional custom code string; nil defaults to "NOT_FOUND".
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// Note:
//   - message is the generic status text, not the real internal error message.
//   - Override is false: generic 500s are never shown as is.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a 422 HTTPError.
//
//	return errs.ValidationError(err)
func ValidationError(err error) *HTTPError {
	return NewUnprocessableEntityError("Validation failed: "+err.Error(), false, nil)
}
