package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation on any model or form value.
func Validate(v any) error {
	return validate.Struct(v)
}

// FieldErrors flattens a validator error into one human readable message per field.
// Keys are the lower-cased form field names. Errors that did not come from the
// validator are returned under the "" key.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := formKey(fe.Field())
		if _, ok := out[key]; ok {
			continue
		}
		out[key] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

func formKey(field string) string {
	b := []byte(field)
	if len(b) > 0 && b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
