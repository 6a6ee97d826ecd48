package security

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain text", input: "  Gym closed on Monday  ", expected: "Gym closed on Monday"},
		{name: "Script tag", input: "<script>alert(1)</script>Hello", expected: "Hello"},
		{name: "Bold tag", input: "<b>Leg day</b>", expected: "Leg day"},
		{name: "Null byte", input: "a\x00b", expected: "ab"},
		{name: "Only markup", input: "<br/>", expected: ""},
		{name: "Apostrophe survives", input: "Don't skip leg day", expected: "Don't skip leg day"},
		{name: "Comparison survives", input: "5 < 10 reps", expected: "5 < 10 reps"},
		{name: "Escaped tags", input: "Tom & Jerry &lt;b&gt;hi&lt;/b&gt;", expected: "Tom & Jerry hi"},
		{name: "Double escaped script", input: "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;ok", expected: "ok"},
		{name: "Escaped ampersand", input: "Rock &amp; roll", expected: "Rock & roll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.expected {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeString_Length(t *testing.T) {
	input := strings.Repeat("ą", maxInputLength+10)
	got := SanitizeString(input)
	if n := len([]rune(got)); n != maxInputLength {
		t.Errorf("len = %d, want %d", n, maxInputLength)
	}
}

func TestValidateFileType(t *testing.T) {
	allowed := []string{".jpg", ".png"}
	if !ValidateFileType("Photo.JPG", allowed) {
		t.Error("ValidateFileType() rejected .JPG")
	}
	if ValidateFileType("notes.exe", allowed) {
		t.Error("ValidateFileType() accepted .exe")
	}
}

func TestValidateFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want bool
	}{
		{size: 0, want: false},
		{size: 1, want: true},
		{size: 5, want: true},
		{size: 6, want: false},
	}
	for _, tt := range tests {
		if got := ValidateFileSize(tt.size, 5); got != tt.want {
			t.Errorf("ValidateFileSize(%d) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("HashPassword() returned the plain password")
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-hash", "correct horse") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}
