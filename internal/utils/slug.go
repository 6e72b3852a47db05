package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxSlugLength is the maximum length for a generated slug.
	// MySQL database names are limited to 64 characters, and "wp_" is prepended.
	MaxSlugLength = 61
)

var (
	// SlugRemoveRegex matches characters that are dropped from slugs
	SlugRemoveRegex = regexp.MustCompile(`[^a-z0-9_\s-]+`)

	// SlugSeparatorRegex matches runs of separators that collapse into a single hyphen
	SlugSeparatorRegex = regexp.MustCompile(`[-_\s]+`)
)

// Slugify turns a display name into a lowercase, hyphen-separated identifier.
// Accented letters are folded to ASCII. Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	name = foldDiacritics(strings.ToLower(name))

	// Drop anything that is not a word character, space or hyphen
	name = SlugRemoveRegex.ReplaceAllString(name, "")

	// Collapse spaces, underscores and hyphens
	name = SlugSeparatorRegex.ReplaceAllString(name, "-")

	name = strings.Trim(name, "-")

	if len(name) > MaxSlugLength {
		name = strings.TrimRight(name[:MaxSlugLength], "-")
	}

	return name
}

// foldDiacritics strips combining marks, e.g. "é" becomes "e"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
