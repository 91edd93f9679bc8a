// Package htmlsanitize strips markup from admin-entered text before it is
// stored or pushed to devices.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag and returns the remaining text with entities
// decoded, trimmed of surrounding whitespace. Notification titles and bodies
// are rendered as plain text by the mobile clients.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
