// Package sanitizer provides input normalization for workspace data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors. Sanitization runs
// before validation so the validator always sees canonical input.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName canonicalizes service and location names.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeNotes collapses whitespace runs in free-form notes while keeping
// line breaks meaningful to the author.
func NormalizeNotes(notes string) string {
	lines := strings.Split(notes, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, TrimAndNormalize(line))
	}
	joined := strings.Join(out, "\n")
	return strings.Trim(joined, "\n")
}
