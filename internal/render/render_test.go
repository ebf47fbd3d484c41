package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

const chat = "[1/1/23, 09:59] Alice: Messages and calls are end-to-end encrypted.\n" +
	"[1/1/23, 10:00] Alice: Hello there\n" +
	"[1/1/23, 10:01] Bob: hey\n" +
	"[1/1/23, 10:02] Bob: image omitted\n"

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

func lineWith(t *testing.T, out, needle string) string {
	t.Helper()
	for _, l := range strings.Split(stripANSI(out), "\n") {
		if strings.Contains(l, needle) {
			return l
		}
	}
	t.Fatalf("no line contains %q in:\n%s", needle, out)
	return ""
}

func TestRenderSides(t *testing.T) {
	units := format.Format(parse.Parse(chat), format.Options{})
	out := Render(units, Options{Width: 60, Title: "Alice"})

	first := lineWith(t, out, "Hello there")
	second := lineWith(t, out, "hey")
	assert.Greater(t, strings.Index(first, "Hello there"), 15, "first-party bubbles sit on the right")
	assert.Less(t, strings.Index(second, "hey"), 5, "second-party bubbles sit on the left")

	plain := stripANSI(out)
	assert.Contains(t, plain, "Alice • 1/1/23, 10:00")
	assert.Contains(t, plain, format.Token(format.KindImage))
	assert.Contains(t, out, "encrypted")
}

func TestRenderSwapMovesBubbles(t *testing.T) {
	records := parse.Parse(chat)
	out := Render(format.Format(records, format.Options{Swapped: true}), Options{Width: 60})

	first := lineWith(t, out, "Hello there")
	second := lineWith(t, out, "hey")
	assert.Less(t, strings.Index(first, "Hello there"), 5)
	assert.Greater(t, strings.Index(second, "hey"), 15)
}

func TestRenderNarrowWidth(t *testing.T) {
	units := []format.DisplayUnit{{
		Kind: format.KindPlainText, Role: format.SecondParty,
		Text: strings.Repeat("w", 40), Sender: "Bob", Timestamp: "t",
	}}
	out := Render(units, Options{Width: 20, Theme: ThemeDark})
	for _, l := range strings.Split(strings.TrimRight(stripANSI(out), "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(l)), 20, "line %q", l)
	}
}

func TestTranscript(t *testing.T) {
	units := format.Format(parse.Parse(chat), format.Options{MaxChars: 6})
	out := Transcript(units)

	assert.True(t, strings.HasPrefix(out, "*** "+parse.EncryptionBanner+" ***\n\n"))
	assert.Contains(t, out, "> [1/1/23, 10:00] Alice\n  Hello\n  there\n\n")
	assert.Contains(t, out, "< [1/1/23, 10:01] Bob\n  hey\n\n")
	assert.Contains(t, out, "< [1/1/23, 10:02] Bob\n  "+format.Token(format.KindImage))
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Pizza and pizza", "PIZZA")
	assert.Equal(t, colorBoldRed+"Pizza"+colorReset+" and "+colorBoldRed+"pizza"+colorReset, got)
	assert.Equal(t, "untouched", highlightKeywords("untouched", ""))
}

func TestHighlightKeywordsMultipleTerms(t *testing.T) {
	got := highlightKeywords("hello world", "hello m")
	assert.Equal(t, colorBoldRed+"hello"+colorReset+" world", got)

	got = highlightKeywords("room 31", "m 1 31 [")
	assert.Equal(t, "roo"+colorBoldRed+"m"+colorReset+" "+colorBoldRed+"31"+colorReset, got)
	assert.Equal(t, "room 31", stripANSI(got))

	got = highlightKeywords("ab", "a b")
	assert.Equal(t, colorBoldRed+"ab"+colorReset, got, "adjacent spans merge")
}

func TestHighlightKeywordsNonASCII(t *testing.T) {
	got := highlightKeywords("İstanbul trip", "trip")
	assert.Equal(t, "İstanbul "+colorBoldRed+"trip"+colorReset, got)

	got = highlightKeywords("Größe ÄRGER", "grö ärger")
	assert.Equal(t, colorBoldRed+"Grö"+colorReset+"ße "+colorBoldRed+"ÄRGER"+colorReset, got)
}

func TestWrapLineSkipsANSI(t *testing.T) {
	line := colorBoldRed + "abcdef" + colorReset + "gh"
	got := wrapLine(line, 4)
	require.Len(t, got, 2)
	assert.Equal(t, colorBoldRed+"abcd", got[0])
	assert.Equal(t, "ef"+colorReset+"gh", got[1])
	assert.Equal(t, []string{"x"}, wrapLine("x", 0))
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)
	assert.Equal(t, ThemeLight, th.Toggle())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}
