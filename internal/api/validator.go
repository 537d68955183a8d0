// validator.go - Request validation wired into echo
package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts validator/v10 to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator that reports fields by their
// form or json name.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator. Failures are returned as a
// VALIDATION_ERROR naming every invalid field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewBadRequestError("invalid request", err)
	}
	apiErr := NewValidationError(verrs[0].Field())
	apiErr.Fields = apiErr.Fields[:0]
	for _, fe := range verrs {
		apiErr.Fields = append(apiErr.Fields, fe.Field())
	}
	apiErr.Details = err.Error()
	return apiErr
}
