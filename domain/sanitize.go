package domain

import "strings"

// markupEscaper rewrites the five markup characters in one pass over the input,
// so a reference produced for one character is never matched again.
var markupEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Sanitize escapes markup in free text. Empty input stays empty.
func Sanitize(text string) string {
	if text == "" {
		return text
	}
	return markupEscaper.Replace(text)
}
