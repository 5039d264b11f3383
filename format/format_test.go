package format

import "testing"

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"email", Email, "user.name+tag@example.co.jp", true},
		{"email double dot", Email, "a..b@example.com", false},
		{"email no tld", Email, "a@localhost", false},
		{"url", URL, "https://example.com/path?q=1", true},
		{"url mailto", URL, "mailto:a@example.com", true},
		{"url relative", URL, "/path", false},
		{"uuid", UUID, "123e4567-e89b-12d3-a456-426614174000", true},
		{"uuid braces", UUID, "{123e4567-e89b-12d3-a456-426614174000}", false},
		{"uuid short", UUID, "123e4567", false},
	}
	for _, tc := range cases {
		if got := tc.fn(tc.in); got != tc.want {
			t.Fatalf("%s: %q: expected %v, got %v", tc.name, tc.in, tc.want, got)
		}
	}
}

func TestTime(t *testing.T) {
	if !Time("2024-05-01T10:00:00.5+09:00", "") {
		t.Fatalf("expected RFC 3339 with fraction to pass")
	}
	if Time("2024-05-01", "") {
		t.Fatalf("expected date only to fail the default layout")
	}
	if !Time("2024-05-01", DateLayout) {
		t.Fatalf("expected date layout to pass")
	}
}
