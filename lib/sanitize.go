package lib

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// passes allowed for stripping markup that only appears once an outer layer is removed
const maxSanitizePasses = 4

// SanitizeText strips all markup from user supplied text and trims it. The
// result is stored as plain text, so entities are decoded before sanitizing
// and the strip repeats until nothing changes. Input that does not settle is
// returned in its escaped form.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}

	s = html.UnescapeString(s)
	for range maxSanitizePasses {
		clean := html.UnescapeString(textPolicy.Sanitize(s))
		if clean == s {
			return strings.TrimSpace(s)
		}
		s = clean
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
