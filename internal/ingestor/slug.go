package ingestor

import (
	"strings"
	"unicode"
)

// Slug derives the unified Market slug for a venue's quote title: lowercase,
// collapse every run of non-alphanumeric characters to a single hyphen,
// truncate to 200 runes, then prefix with the venue's two-letter source tag.
func Slug(sourceTag, title string) string {
	lower := strings.ToLower(title)

	var spaced strings.Builder
	spaced.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			spaced.WriteRune(r)
		} else {
			spaced.WriteRune(' ')
		}
	}

	hyphenated := strings.Join(strings.Fields(spaced.String()), "-")

	runes := []rune(hyphenated)
	if len(runes) > 200 {
		hyphenated = string(runes[:200])
	}

	return sourceTag + "-" + hyphenated
}
