package producttypes

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/backoffice/internal/metadata"
	"github.com/odyssey-erp/backoffice/internal/shared"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateForm maps validator violations onto form fields.
func validateForm(v *validator.Validate, data Form) ([]shared.UserError, error) {
	err := v.Struct(data)
	if err == nil {
		return nil, nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return nil, fmt.Errorf("producttypes: validate: %w", err)
	}
	out := make([]shared.UserError, 0, len(violations))
	for _, fe := range violations {
		out = append(out, userError(fe))
	}
	return out, nil
}

func userError(fe validator.FieldError) shared.UserError {
	field := fe.Field()
	ns := fe.Namespace()
	switch {
	case strings.Contains(ns, "."+metadata.FieldPrivateMetadata+"["):
		field = metadata.FieldPrivateMetadata
	case strings.Contains(ns, "."+metadata.FieldMetadata+"["):
		field = metadata.FieldMetadata
	}

	code := shared.CodeInvalid
	var msg string
	switch fe.Tag() {
	case "required":
		code = shared.CodeRequired
		msg = "This field is required."
	case "max":
		msg = fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "gte":
		msg = fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "oneof":
		msg = fmt.Sprintf("Value must be one of: %s.", fe.Param())
	default:
		msg = "Enter a valid value."
	}
	return shared.UserError{Field: field, Code: code, Message: msg}
}
