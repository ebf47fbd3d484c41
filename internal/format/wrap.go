package format

import (
	"strings"
	"unicode/utf8"
)

// Wrap greedily breaks text into lines of at most maxChars runes, splitting on
// single spaces. Every word keeps its trailing space, so deleting the inserted
// "\n" characters gives the original text back (see Unwrap). A word longer
// than maxChars is moved to a fresh line and cut into maxChars-rune chunks,
// one per line; the cut ignores grapheme clusters. maxChars <= 0 disables
// wrapping.
func Wrap(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0

	for _, word := range strings.Split(text, " ") {
		n := utf8.RuneCountInString(word)

		if n > maxChars {
			// a long word starts a fresh line and keeps its trailing space, unlike a plain greedy fill
			if lineLen > 0 {
				b.WriteByte('\n')
			}
			r := []rune(word)
			for i := 0; i < len(r); i += maxChars {
				end := min(i+maxChars, len(r))
				b.WriteString(string(r[i:end]))
				if end == len(r) {
					b.WriteByte(' ')
				}
				b.WriteByte('\n')
			}
			lineLen = 0
			continue
		}

		if lineLen+n > maxChars {
			b.WriteByte('\n')
			lineLen = 0
		}
		b.WriteString(word)
		b.WriteByte(' ')
		lineLen += n + 1
	}

	return strings.TrimSpace(b.String())
}

// Unwrap removes the breaks Wrap inserted.
func Unwrap(text string) string {
	return strings.ReplaceAll(text, "\n", "")
}
