package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Zuo-Peng/chatview/internal/format"
)

const (
	colorReset   = "\033[0m"
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

const defaultWidth = 80

type Options struct {
	Width int    // terminal width, 0 = 80
	Theme Theme  // "" = light
	Query string // terms to highlight
	Title string // optional header
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red
// ANSI codes. Spans are found on the original runes first and merged, so one
// term never matches inside the codes inserted for another.
func highlightKeywords(text, query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return text
	}

	r := []rune(text)
	hit := make([]bool, len(r))
	for _, term := range terms {
		t := []rune(term)
		for i := 0; i+len(t) <= len(r); i++ {
			if !foldEqual(r[i:i+len(t)], t) {
				continue
			}
			for j := i; j < i+len(t); j++ {
				hit[j] = true
			}
			i += len(t) - 1
		}
	}

	var b strings.Builder
	for i, c := range r {
		if hit[i] && (i == 0 || !hit[i-1]) {
			b.WriteString(colorBoldRed)
		}
		b.WriteRune(c)
		if hit[i] && (i == len(r)-1 || !hit[i+1]) {
			b.WriteString(colorReset)
		}
	}
	return b.String()
}

func foldEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] && unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(prefix+l, " ")
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Render draws display units as chat bubbles: first-party on the right,
// second-party on the left, notices centred.
func Render(units []format.DisplayUnit, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	st := newStyles(opts.Theme)

	// border (2) + padding (2)
	innerW := width*3/4 - 4
	if innerW < 10 {
		innerW = 10
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, st.header.Render(opts.Title)))
		b.WriteString("\n\n")
	}

	for _, u := range units {
		if u.Kind == format.KindNotice {
			notice := st.notice.Render(wordwrap.String(u.Text, innerW))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, notice))
		} else {
			b.WriteString(renderBubble(u, st, width, innerW, opts.Query))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderBubble(u format.DisplayUnit, st styles, width, innerW int, query string) string {
	text := u.Text
	if !u.Kind.IsMedia() {
		text = highlightKeywords(text, query)
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(strings.TrimRight(l, " "), innerW)...)
	}
	for _, l := range wrapLine(fmt.Sprintf("%s • %s", u.Sender, u.Timestamp), innerW) {
		lines = append(lines, st.meta.Render(l))
	}

	bubble, align := st.second, lipgloss.Left
	if u.Role == format.FirstParty {
		bubble, align = st.first, lipgloss.Right
	}
	if u.Kind.IsMedia() {
		bubble = bubble.Italic(true)
	}

	return lipgloss.PlaceHorizontal(width, align, bubble.Render(strings.Join(lines, "\n")))
}

// Transcript renders units as plain text, one block per message, for pipes
// and the clipboard.
func Transcript(units []format.DisplayUnit) string {
	var b strings.Builder
	for _, u := range units {
		if u.Kind == format.KindNotice {
			fmt.Fprintf(&b, "*** %s ***\n\n", u.Text)
			continue
		}
		marker := "<"
		if u.Role == format.FirstParty {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", marker, u.Timestamp, u.Sender)
		b.WriteString(indentLines(u.Text, "  "))
		b.WriteString("\n\n")
	}
	return b.String()
}
