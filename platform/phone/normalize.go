// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// Normalize strips common formatting (spaces, hyphens, parentheses) and, when
// the result parses as a valid number for the default region, returns the
// national significant digits. Otherwise the cleaned input is returned
// unchanged so length validation still sees what the caller supplied.
func Normalize(input string) string {
	cleaned := stripFormatting(input)
	if cleaned == "" {
		return cleaned
	}

	number, err := phonenumbers.Parse(cleaned, defaultRegion)
	if err != nil {
		return cleaned
	}

	if !phonenumbers.IsValidNumber(number) {
		return cleaned
	}

	return phonenumbers.GetNationalSignificantNumber(number)
}

func stripFormatting(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for i, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting characters are dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
