package book

import "regexp"

var (
	unsafeRunes = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separators  = regexp.MustCompile(`[-\s]+`)
)

// SafeName derives a filesystem-safe chapter identifier from a page title:
// runes outside {word characters, whitespace, hyphen} are stripped, then any
// run of hyphens/whitespace collapses to a single underscore. The derivation
// is idempotent.
func SafeName(title string) string {
	s := unsafeRunes.ReplaceAllString(title, "")
	return separators.ReplaceAllString(s, "_")
}
