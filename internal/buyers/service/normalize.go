package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/platform/phone"
)

var bhkAliases = map[string]string{
	"1":      string(transport.BHKOne),
	"2":      string(transport.BHKTwo),
	"3":      string(transport.BHKThree),
	"4":      string(transport.BHKFour),
	"Studio": string(transport.BHKStudio),
	"One":    string(transport.BHKOne),
	"Two":    string(transport.BHKTwo),
	"Three":  string(transport.BHKThree),
	"Four":   string(transport.BHKFour),
}

// NormalizeBHK maps the short wire tokens ("1".."4", "Studio") onto the
// canonical stored values. Unrecognized input passes through unchanged and is
// rejected by validation instead.
func NormalizeBHK(raw string) string {
	raw = strings.TrimSpace(raw)
	if canonical, ok := bhkAliases[raw]; ok {
		return canonical
	}
	return raw
}

// NormalizeTags turns the flexible tags input into a clean list. A native
// list is used as-is; string input is first tried as a JSON array, then split
// on commas. Segments are trimmed and empty segments dropped. Duplicates are
// kept.
func NormalizeTags(tags transport.FlexTags) []string {
	if tags.IsList {
		return cleanTags(tags.Values)
	}

	raw := strings.TrimSpace(tags.Raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err == nil {
			return cleanTags(values)
		}
	}

	return cleanTags(strings.Split(raw, ","))
}

func cleanTags(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseBudget converts a raw budget cell into an optional integer. Empty
// means absent; anything non-numeric is a field error on the named field.
func ParseBudget(field string, n transport.FlexNumber) (*int64, error) {
	raw := strings.TrimSpace(n.Raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: must be a number", field)
	}
	return &value, nil
}

// NormalizeRow converts a raw import row into the validated input shape.
// Returned errors use the "field: message" convention so they slot straight
// into the per-row error list.
func NormalizeRow(row transport.ImportRow) (transport.BuyerInput, []string) {
	var errs []string

	budgetMin, err := ParseBudget("budgetMin", row.BudgetMin)
	if err != nil {
		errs = append(errs, err.Error())
	}
	budgetMax, err := ParseBudget("budgetMax", row.BudgetMax)
	if err != nil {
		errs = append(errs, err.Error())
	}

	input := transport.BuyerInput{
		FullName:     strings.TrimSpace(row.FullName),
		Email:        strings.TrimSpace(row.Email),
		Phone:        phone.Normalize(row.Phone),
		City:         strings.TrimSpace(row.City),
		PropertyType: strings.TrimSpace(row.PropertyType),
		BHK:          NormalizeBHK(row.BHK),
		Purpose:      strings.TrimSpace(row.Purpose),
		BudgetMin:    budgetMin,
		BudgetMax:    budgetMax,
		Timeline:     strings.TrimSpace(row.Timeline),
		Source:       strings.TrimSpace(row.Source),
		Notes:        strings.TrimSpace(row.Notes),
		Tags:         NormalizeTags(row.Tags),
		Status:       strings.TrimSpace(row.Status),
	}
	if input.Status == "" {
		input.Status = string(transport.StatusNew)
	}

	return input, errs
}
