package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/segmentation-fault/forum/internal/core/domain"
)

// echoValidator adapts go-playground/validator to echo.Validator. Failures
// come back as domain.HTTPValidationError located under "body" by JSON key.
type echoValidator struct {
	v *validator.Validate
}

func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &echoValidator{v: v}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	out := domain.HTTPValidationError{Detail: make([]domain.ValidationError, 0, len(fields))}
	for _, fe := range fields {
		out.Detail = append(out.Detail, fieldError(fe))
	}
	return out
}

func fieldError(fe validator.FieldError) domain.ValidationError {
	loc := []any{"body", fe.Field()}
	switch fe.Tag() {
	case "required":
		return missing(loc...)
	case "email":
		return domain.ValidationError{Loc: loc, Msg: "value is not a valid email address", Type: "value_error.email"}
	case "min":
		return domain.ValidationError{
			Loc:  loc,
			Msg:  fmt.Sprintf("ensure this value has at least %s characters", fe.Param()),
			Type: "value_error.any_str.min_length",
		}
	case "max":
		return domain.ValidationError{
			Loc:  loc,
			Msg:  fmt.Sprintf("ensure this value has at most %s characters", fe.Param()),
			Type: "value_error.any_str.max_length",
		}
	default:
		return domain.ValidationError{Loc: loc, Msg: fmt.Sprintf("failed %s validation", fe.Tag()), Type: "value_error." + fe.Tag()}
	}
}

func missing(loc ...any) domain.ValidationError {
	return domain.ValidationError{Loc: loc, Msg: "field required", Type: "value_error.missing"}
}

// invalid builds a one-entry envelope for failures found outside the body
// validator, such as path and query parameters.
func invalid(entries ...domain.ValidationError) error {
	return domain.HTTPValidationError{Detail: entries}
}
