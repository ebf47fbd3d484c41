package search

import (
	"strings"
	"unicode"

	"github.com/Zuo-Peng/chatview/internal/format"
)

type Result struct {
	Index     int // position in the display unit slice
	Line      int
	Role      format.Role
	Sender    string
	Timestamp string
	Snippet   string
}

type Options struct {
	Query string
	Role  format.Role // "" = all
	Limit int
}

const snippetContext = 30

// lowerRunes lowercases rune by rune so positions line up with the original.
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j := range needle {
			if haystack[i+j] != needle[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}

// makeSnippet extracts a snippet around the first occurrence of query in text,
// marking the hit with >>> and <<<.
func makeSnippet(text, query string, contextChars int) string {
	runes := []rune(text)
	qLen := len([]rune(query))
	pos := indexRunes(lowerRunes(text), lowerRunes(query))
	if pos < 0 {
		// no match, return head
		if len(runes) > contextChars*2 {
			return string(runes[:contextChars*2]) + "..."
		}
		return text
	}

	start := max(pos-contextChars, 0)
	end := min(pos+qLen+contextChars, len(runes))
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:pos]) +
		">>>" + string(runes[pos:pos+qLen]) + "<<<" +
		string(runes[pos+qLen:end])
	return prefix + snippet + suffix
}

// Search finds messages whose text or sender contains the query,
// case-insensitively, in display order. Notices are never matched.
func Search(units []format.DisplayUnit, opts Options) []Result {
	query := strings.TrimSpace(opts.Query)
	if query == "" {
		return nil
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	q := lowerRunes(query)

	var results []Result
	for i, u := range units {
		if u.Kind == format.KindNotice {
			continue
		}
		if opts.Role != "" && u.Role != opts.Role {
			continue
		}

		text := strings.ReplaceAll(format.Unwrap(u.Text), "\t", " ")
		if indexRunes(lowerRunes(text), q) < 0 && indexRunes(lowerRunes(u.Sender), q) < 0 {
			continue
		}

		results = append(results, Result{
			Index:     i,
			Line:      u.Line,
			Role:      u.Role,
			Sender:    u.Sender,
			Timestamp: u.Timestamp,
			Snippet:   makeSnippet(text, query, snippetContext),
		})
		if len(results) >= opts.Limit {
			break
		}
	}
	return results
}
