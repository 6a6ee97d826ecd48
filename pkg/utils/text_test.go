package utils

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "  B@Example.com ", expected: "b@example.com"},
		{input: "a@b.c", expected: "a@b.c"},
		{input: "   ", expected: ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.expected {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestOptionalString(t *testing.T) {
	if OptionalString("   ") != nil {
		t.Error("OptionalString(blank) should be nil")
	}
	got := OptionalString("  leg day ")
	if got == nil || *got != "leg day" {
		t.Errorf("OptionalString() = %v, want %q", got, "leg day")
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{name: "Strips www", link: "https://www.youtube.com/watch?v=x", expected: "youtube.com"},
		{name: "Keeps subdomain", link: "https://m.vimeo.com/1", expected: "m.vimeo.com"},
		{name: "No host", link: "not a url", expected: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Domain(tt.link); got != tt.expected {
				t.Errorf("Domain(%q) = %q, want %q", tt.link, got, tt.expected)
			}
		})
	}
}
