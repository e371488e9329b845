package transport

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexNumberUnmarshal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`5000000`, "5000000"},
		{`"5000000"`, "5000000"},
		{`" 42 "`, "42"},
		{`null`, ""},
		{`""`, ""},
	}
	for _, tc := range cases {
		var n FlexNumber
		if err := json.Unmarshal([]byte(tc.in), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if n.Raw != tc.want {
			t.Fatalf("unmarshal %s: got %q, want %q", tc.in, n.Raw, tc.want)
		}
	}
}

func TestFlexTagsUnmarshal(t *testing.T) {
	var list FlexTags
	if err := json.Unmarshal([]byte(`["a","b"]`), &list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !list.IsList || !reflect.DeepEqual(list.Values, []string{"a", "b"}) {
		t.Fatalf("unexpected result: %+v", list)
	}

	var str FlexTags
	if err := json.Unmarshal([]byte(`"a, b"`), &str); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if str.IsList || str.Raw != "a, b" {
		t.Fatalf("unexpected result: %+v", str)
	}

	var null FlexTags
	if err := json.Unmarshal([]byte(`null`), &null); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !null.IsZero() {
		t.Fatalf("null must be absent: %+v", null)
	}
}

func TestImportRowDecodesMixedShapes(t *testing.T) {
	body := `{
		"fullName": "Priya Sharma",
		"phone": "9876543210",
		"budgetMin": 4000000,
		"budgetMax": "6000000",
		"tags": ["hot", "vip"]
	}`

	var row ImportRow
	if err := json.Unmarshal([]byte(body), &row); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.BudgetMin.Raw != "4000000" || row.BudgetMax.Raw != "6000000" {
		t.Fatalf("budgets: %+v", row)
	}
	if !row.Tags.IsList || !reflect.DeepEqual(row.Tags.Values, []string{"hot", "vip"}) {
		t.Fatalf("tags: %+v", row.Tags)
	}
}
