package validator

import (
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	// Request structs carry their rules in `binding` tags.
	v.SetTagName("binding")
	return v
}

// Struct validates a bound request struct and flattens validator errors into
// a single readable message.
func Struct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	verrs, ok := err.(playground.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func describe(fe playground.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
