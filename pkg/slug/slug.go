// Package slug converts arbitrary titles and file names into safe
// URL and object-key fragments.
package slug

import (
	"strings"
	"unicode"
)

// Make converts a string into a lowercase ASCII slug. Runs of
// non-alphanumeric characters collapse into a single hyphen.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// MakeUnique appends a short suffix (typically a UUID fragment) so
// independently generated keys never collide.
func MakeUnique(s, suffix string) string {
	base := Make(s)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
