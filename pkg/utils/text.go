package utils

import (
	"net/url"
	"strings"
)

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// OptionalString trims input and returns nil when nothing is left.
func OptionalString(input string) *string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	return &input
}

// Domain returns the host of a link without a leading "www.", or the input
// unchanged when it has no host.
func Domain(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return strings.TrimPrefix(u.Host, "www.")
}
