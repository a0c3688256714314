package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML, leaving plain text only. Free-text fields
// go through this before they are persisted.
var strictPolicy = bluemonday.StrictPolicy()

func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

func SanitizeTexts(fields ...*string) {
	for _, f := range fields {
		*f = SanitizeText(*f)
	}
}
