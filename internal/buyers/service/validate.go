package service

import (
	"errors"
	"fmt"

	goval "github.com/go-playground/validator/v10"

	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/platform/validator"
)

// FieldErrors runs tag validation over a buyer input and returns every
// violation as a "field: message" string, using the JSON field names.
func FieldErrors(val *validator.Validator, input transport.BuyerInput) []string {
	err := val.Struct(input)
	if err == nil {
		return nil
	}

	var verrs goval.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe goval.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], received %q", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}

// CrossFieldErrors checks the rules that span multiple fields. It is only
// meaningful on input that already passed field validation.
func CrossFieldErrors(input transport.BuyerInput) []string {
	var msgs []string

	needsBHK := input.PropertyType == string(transport.PropertyTypeApartment) ||
		input.PropertyType == string(transport.PropertyTypeVilla)
	if needsBHK && input.BHK == "" {
		msgs = append(msgs, "bhk: BHK is required for Apartment and Villa property types")
	}

	if input.BudgetMin != nil && input.BudgetMax != nil && *input.BudgetMax < *input.BudgetMin {
		msgs = append(msgs, "budgetMax: Maximum budget must be greater than or equal to minimum budget")
	}

	return msgs
}

// Validate runs the full per-record pipeline: field validation first, then
// cross-field rules only once the fields themselves are clean.
func Validate(val *validator.Validator, input transport.BuyerInput) []string {
	if msgs := FieldErrors(val, input); len(msgs) > 0 {
		return msgs
	}
	return CrossFieldErrors(input)
}
