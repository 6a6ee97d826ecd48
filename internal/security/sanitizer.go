package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxInputLength    = 1000
	maxSanitizePasses = 5
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims input, drops null bytes and caps its length
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if utf8.RuneCountInString(input) > maxInputLength {
		input = string([]rune(input)[:maxInputLength])
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText strips markup from free text shown to other users. Entities are
// decoded before each policy pass, so escaped tags are stripped too; the loop
// stops once decoding yields nothing new for the policy to remove.
func SanitizeText(input string) string {
	text := SanitizeString(input)
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(SanitizeHTML(text))
		if next == text {
			return strings.TrimSpace(text)
		}
		text = next
	}
	// Still changing: keep the escaped policy output.
	return strings.TrimSpace(SanitizeHTML(text))
}

// ValidateFileType checks if file extension is allowed
func ValidateFileType(filename string, allowedTypes []string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range allowedTypes {
		if strings.HasSuffix(filename, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ValidateFileSize checks if file size is within limit
func ValidateFileSize(size int64, maxSize int64) bool {
	return size > 0 && size <= maxSize
}
