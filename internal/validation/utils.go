// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or numeric ranges) defined in struct tags
// and extracts validation errors into a format the client can
// understand
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/deppfellow/simulacao-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required,min=5"`)
// - Implement Validate() error that runs validator.Struct(req)
// - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// New returns a validator that reports JSON field names instead of Go
// struct field names, so field errors match the request body keys.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// "whole" accepts numbers without a fractional part, so 5.0 passes
	// and 2.5 does not. Integer kinds are always whole.
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.Float32, reflect.Float64:
			f := field.Float()
			return !math.IsNaN(f) && math.Trunc(f) == f
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		default:
			return false
		}
	})

	return v
}

// errTrailingData is returned when the body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON body")

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) bindBody(c, payload) populates request struct from the incoming request body.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (422) with field-level errors if either step fails.
//
// NOTE: payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := bindBody(c, payload); err != nil {
		return bindError(err)
	}

	return ValidatePayload(payload)
}

// bindBody decodes the request body as a single JSON value.
//
// A missing Content-Type is read as JSON. Anything after the first value
// is rejected. Other content types go through Echo's binder.
func bindBody(c echo.Context, payload Validatable) error {
	req := c.Request()

	contentType := req.Header.Get(echo.HeaderContentType)
	if contentType != "" && !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		return c.Bind(payload)
	}

	if req.Body == nil {
		return nil
	}

	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(payload); err != nil {
		// Empty body: leave every field unset so "required" reports them.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}

// ValidatePayload runs payload.Validate() and converts failures into a 422 HTTPError.
func ValidatePayload(payload Validatable) error {
	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewUnprocessableEntityError(msg, true, fieldErrors)
	}

	return nil
}

// bindError turns a bind failure into a 422.
//
// Echo wraps the json decoder error as the HTTPError internal error, so the
// original *json.UnmarshalTypeError / *json.SyntaxError is still reachable
// on that path too.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{
			{
				Field: field,
				Error: fmt.Sprintf("must be a valid %s", describeKind(typeErr.Type)),
			},
		})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return bodyError(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return bodyError("malformed JSON: unexpected end of input")
	}

	if errors.Is(err, errTrailingData) {
		return bodyError("malformed JSON: " + errTrailingData.Error())
	}

	message := "Invalid request body"
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
	}

	return bodyError(message)
}

// bodyError reports a problem with the request body as a whole.
func bodyError(message string) *errs.HTTPError {
	return errs.NewUnprocessableEntityError("Validation failed", true, []errs.FieldError{
		{
			Field: "body",
			Error: message,
		},
	})
}

// describeKind names the JSON type a Go destination type expects.
func describeKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return t.Kind().String()
	}
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Anything else is reported against the whole body.
		return errs.ValidationError(err).Message, []errs.FieldError{
			{Field: "body", Error: err.Error()},
		}
	}

	// Convert validator.ValidationErrors into user-friendly messages.
	for _, err := range validationErrors {
		field := err.Field()
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min", "gte":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max", "lte":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "lt":
			msg = fmt.Sprintf("must be less than %s", err.Param())

		case "whole":
			msg = "must be a valid integer"

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			// Fallback for tags not explicitly handled above.
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
