// Package text holds the tweet normalizer shared by prediction and tooling.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

// notSpace matches one non-whitespace rune using the Unicode notion of whitespace,
// so a URL ends at a no-break space the same way it ends at an ASCII space.
const notSpace = `[^\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	urlPattern     = regexp.MustCompile(`http` + notSpace + `+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{N}_]+`)
)

// Normalize cleans raw tweet text into lowercase alphabetic words separated by
// single spaces, with URLs, @mentions, non-letters and stopwords removed.
// It never fails; the result may be empty.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = strings.Map(keepLetterOrSpace, s)

	words := strings.FieldsFunc(s, isSpace)
	kept := words[:0]
	for _, w := range words {
		if !IsStopword(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func keepLetterOrSpace(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return r
	case isSpace(r):
		return r
	default:
		return -1
	}
}

// isSpace reports Unicode whitespace including the ASCII separators U+001C..U+001F,
// matching notSpace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
