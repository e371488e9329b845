package service

import (
	"encoding/json"

	"buyer_leads_backend/internal/buyers/transport"
)

// ChangeRecord is the diff stored with every history entry. It records which
// action happened and which fields carried a value, not the values
// themselves.
type ChangeRecord struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
}

// SuppliedFields lists the input fields that carry a value, in the fixed
// export column order minus updatedAt.
func SuppliedFields(input transport.BuyerInput) []string {
	fields := make([]string, 0, 14)
	add := func(name string, present bool) {
		if present {
			fields = append(fields, name)
		}
	}

	add("fullName", input.FullName != "")
	add("email", input.Email != "")
	add("phone", input.Phone != "")
	add("city", input.City != "")
	add("propertyType", input.PropertyType != "")
	add("bhk", input.BHK != "")
	add("purpose", input.Purpose != "")
	add("budgetMin", input.BudgetMin != nil)
	add("budgetMax", input.BudgetMax != nil)
	add("timeline", input.Timeline != "")
	add("source", input.Source != "")
	add("notes", input.Notes != "")
	add("tags", len(input.Tags) > 0)
	add("status", input.Status != "")

	return fields
}

// DiffFor serializes the change record for one mutation.
func DiffFor(action string, input transport.BuyerInput) ([]byte, error) {
	return json.Marshal(ChangeRecord{
		Action: action,
		Fields: SuppliedFields(input),
	})
}
