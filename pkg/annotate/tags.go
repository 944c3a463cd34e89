package annotate

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Suggest filters known tags by input: a tag matches when it contains the
// input case-insensitively and is not in exclude. Blank input yields nothing.
// The order of known is preserved.
func Suggest(known []string, input string, exclude []string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	lower := cases.Lower(language.Und)
	needle := lower.String(input)

	var out []string
	for _, tag := range known {
		if slices.Contains(exclude, tag) {
			continue
		}
		if strings.Contains(lower.String(tag), needle) {
			out = append(out, tag)
		}
	}
	return out
}

// NormalizeTag trims s and reports whether anything is left.
func NormalizeTag(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
