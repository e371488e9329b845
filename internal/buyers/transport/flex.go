package transport

import (
	"encoding/json"
	"strings"
)

// FlexNumber accepts a JSON number, a numeric string, null, or absence, and
// preserves the raw text. Parsing to an integer happens in the normalizer so
// non-numeric input surfaces as a field validation error, not a decode error.
type FlexNumber struct {
	Raw string
}

// IsZero reports whether no value was supplied.
func (n FlexNumber) IsZero() bool {
	return strings.TrimSpace(n.Raw) == ""
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		n.Raw = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Raw = strings.TrimSpace(s)
		return nil
	}

	n.Raw = trimmed
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if n.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}

// FlexTags accepts a JSON array of strings or a single string. String input
// may itself be a JSON-array string or a comma-separated list; the normalizer
// decides which.
type FlexTags struct {
	Values []string
	Raw    string
	IsList bool
}

// IsZero reports whether no value was supplied.
func (t FlexTags) IsZero() bool {
	return !t.IsList && strings.TrimSpace(t.Raw) == ""
}

func (t *FlexTags) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*t = FlexTags{}
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		t.Values = values
		t.IsList = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t.Raw = s
	return nil
}

func (t FlexTags) MarshalJSON() ([]byte, error) {
	if t.IsList {
		return json.Marshal(t.Values)
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
