package transport

import (
	"strings"
	"testing"
)

func TestParseCSVRows(t *testing.T) {
	doc := "fullName,email,phone,city,propertyType,bhk,purpose,budgetMin,budgetMax,timeline,source,notes,tags,status\n" +
		"Priya Sharma,priya@example.com,9876543210,Chandigarh,Apartment,2,Buy,4000000,6000000,ZeroToThreeMonths,Website,Wants corner unit,\"hot,vip\",New\n" +
		"Arjun Mehta,,9812345678,Mohali,Plot,,Buy,,,Exploring,Referral,,,\n"

	rows, err := ParseCSVRows(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.FullName != "Priya Sharma" || first.BHK != "2" || first.Status != "New" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.BudgetMin.Raw != "4000000" || first.BudgetMax.Raw != "6000000" {
		t.Fatalf("budgets must stay raw strings: %+v", first)
	}
	if first.Tags.Raw != "hot,vip" {
		t.Fatalf("tags cell = %q", first.Tags.Raw)
	}

	second := rows[1]
	if second.Email != "" || !second.BudgetMin.IsZero() || !second.Tags.IsZero() {
		t.Fatalf("empty cells must stay absent: %+v", second)
	}
}

func TestParseCSVRowsStripsBOMAndIgnoresUnknownColumns(t *testing.T) {
	doc := "\ufefffullName,phone,city,propertyType,purpose,timeline,source,internalScore\n" +
		"Priya Sharma,9876543210,Mohali,Villa,Rent,Exploring,Call,99\n"

	rows, err := ParseCSVRows(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].FullName != "Priya Sharma" {
		t.Fatalf("BOM not stripped from first header: %+v", rows[0])
	}
	if rows[0].City != "Mohali" || rows[0].PropertyType != "Villa" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestParseCSVRowsEmptyDocument(t *testing.T) {
	if _, err := ParseCSVRows(strings.NewReader("")); err == nil {
		t.Fatal("expected error for missing header")
	}

	rows, err := ParseCSVRows(strings.NewReader("fullName,phone\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("header-only document must yield no rows, got %d", len(rows))
	}
}
