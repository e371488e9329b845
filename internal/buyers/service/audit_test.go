package service

import (
	"encoding/json"
	"reflect"
	"testing"

	"buyer_leads_backend/internal/buyers/transport"
)

func TestSuppliedFieldsListsOnlyPresentFields(t *testing.T) {
	min := int64(100)
	input := transport.BuyerInput{
		FullName:     "Priya Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		BudgetMin:    &min,
		Timeline:     "Exploring",
		Source:       "Referral",
		Tags:         []string{"vip"},
		Status:       "New",
	}

	got := SuppliedFields(input)
	want := []string{
		"fullName", "phone", "city", "propertyType", "purpose",
		"budgetMin", "timeline", "source", "tags", "status",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDiffForEncodesActionAndFields(t *testing.T) {
	input := transport.BuyerInput{FullName: "Priya Sharma", Phone: "9876543210"}

	raw, err := DiffFor("created", input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var record ChangeRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("diff is not valid json: %v", err)
	}
	if record.Action != "created" {
		t.Fatalf("action = %q, want created", record.Action)
	}
	if !reflect.DeepEqual(record.Fields, []string{"fullName", "phone"}) {
		t.Fatalf("fields = %v", record.Fields)
	}
}
