package autofill

import (
	"regexp"
	"strings"
)

var (
	ctaPlaceholder = regexp.MustCompile(`<!-- CTA_\w+_INTEGRATION -->`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans a raw markdown body: drops leftover CTA placeholders,
// unifies line endings and collapses runs of blank lines.
func Normalize(body string) string {
	body = ctaPlaceholder.ReplaceAllString(body, "")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = excessNewlines.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body)
}
