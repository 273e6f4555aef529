package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their json tag so validation errors match the wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Numeric comparison tags (gt, lte) cannot see into decimal.Decimal on
	// their own; expose it to the validator as a float64.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// ValidateAndDecode decodes the request body into payload and validates it
// against the payload's declarative tags. A non-nil return is ready to send.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return NewAppError(http.StatusBadRequest, "Invalid request body", err)
		}

		fieldErrors := make(map[string][]string, len(validationErrors))
		for _, fe := range validationErrors {
			field := fieldName(fe)
			fieldErrors[field] = append(fieldErrors[field], messageFor(fe))
		}
		return NewValidationError(fieldErrors)
	}

	return nil
}

// fieldName strips the root struct segment from the error namespace, leaving
// paths like "amount" or "nfc_data.card_id".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must not be greater than %s.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s.", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("The %s field must be %s characters.", fe.Field(), fe.Param())
	case "alpha":
		return fmt.Sprintf("The %s field must only contain letters.", fe.Field())
	case "uppercase":
		return fmt.Sprintf("The %s field must be uppercase.", fe.Field())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
