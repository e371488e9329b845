package service

import (
	"reflect"
	"testing"

	"buyer_leads_backend/internal/buyers/transport"
)

func TestNormalizeBHKMapsShortTokens(t *testing.T) {
	cases := map[string]string{
		"1":      "One",
		"2":      "Two",
		"3":      "Three",
		"4":      "Four",
		"Studio": "Studio",
		"One":    "One",
		"Four":   "Four",
		"":       "",
		"5":      "5",
	}
	for input, want := range cases {
		if got := NormalizeBHK(input); got != want {
			t.Fatalf("NormalizeBHK(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeTagsFromList(t *testing.T) {
	tags := transport.FlexTags{Values: []string{" urgent ", "", "vip"}, IsList: true}
	got := NormalizeTags(tags)
	want := []string{"urgent", "vip"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeTagsFromCommaString(t *testing.T) {
	tags := transport.FlexTags{Raw: "a, b, b"}
	got := NormalizeTags(tags)
	want := []string{"a", "b", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("duplicates must be preserved: got %v, want %v", got, want)
	}
}

func TestNormalizeTagsFromJSONArrayString(t *testing.T) {
	tags := transport.FlexTags{Raw: `["urgent","follow-up"]`}
	got := NormalizeTags(tags)
	want := []string{"urgent", "follow-up"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeTagsEmptyStringMeansAbsent(t *testing.T) {
	if got := NormalizeTags(transport.FlexTags{Raw: "  "}); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestNormalizeTagsIsIdempotent(t *testing.T) {
	first := NormalizeTags(transport.FlexTags{Raw: " a ,b, ,c "})
	second := NormalizeTags(transport.FlexTags{Values: first, IsList: true})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing twice changed the result: %v vs %v", first, second)
	}
}

func TestParseBudget(t *testing.T) {
	got, err := ParseBudget("budgetMin", transport.FlexNumber{Raw: "500000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != 500000 {
		t.Fatalf("got %v, want 500000", got)
	}

	got, err = ParseBudget("budgetMin", transport.FlexNumber{Raw: ""})
	if err != nil {
		t.Fatalf("empty budget must be absent, got error: %v", err)
	}
	if got != nil {
		t.Fatalf("empty budget must be nil, got %v", *got)
	}

	_, err = ParseBudget("budgetMax", transport.FlexNumber{Raw: "lots"})
	if err == nil {
		t.Fatal("expected error for non-numeric budget")
	}
	if err.Error() != "budgetMax: must be a number" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNormalizeRowDefaultsStatusAndMapsBHK(t *testing.T) {
	row := transport.ImportRow{
		FullName:     " Priya Sharma ",
		Phone:        "98765 43210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "2",
		Purpose:      "Buy",
		BudgetMin:    transport.FlexNumber{Raw: "4000000"},
		BudgetMax:    transport.FlexNumber{Raw: "6000000"},
		Timeline:     "ZeroToThreeMonths",
		Source:       "Website",
		Tags:         transport.FlexTags{Raw: "hot,referred"},
	}

	input, errs := NormalizeRow(row)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if input.FullName != "Priya Sharma" {
		t.Fatalf("full name not trimmed: %q", input.FullName)
	}
	if input.Phone != "9876543210" {
		t.Fatalf("phone not normalized: %q", input.Phone)
	}
	if input.BHK != "Two" {
		t.Fatalf("bhk not mapped: %q", input.BHK)
	}
	if input.Status != "New" {
		t.Fatalf("status must default to New, got %q", input.Status)
	}
	if input.BudgetMin == nil || *input.BudgetMin != 4000000 {
		t.Fatalf("budgetMin not parsed: %v", input.BudgetMin)
	}
	if !reflect.DeepEqual(input.Tags, []string{"hot", "referred"}) {
		t.Fatalf("tags not split: %v", input.Tags)
	}
}

func TestNormalizeRowCollectsBudgetErrors(t *testing.T) {
	row := transport.ImportRow{
		BudgetMin: transport.FlexNumber{Raw: "cheap"},
		BudgetMax: transport.FlexNumber{Raw: "expensive"},
	}
	_, errs := NormalizeRow(row)
	if len(errs) != 2 {
		t.Fatalf("expected 2 budget errors, got %v", errs)
	}
}
