package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"98765 43210", "9876543210"},
		{"+91 98765-43210", "9876543210"},
		{"(987) 654-3210", "9876543210"},
		{"", ""},
		{"  ", ""},
		// Too short to be a valid number: cleaned input passes through so
		// length validation still rejects it downstream.
		{"123", "123"},
		{"12-3", "123"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
