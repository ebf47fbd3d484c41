package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type palette struct {
	first  lipgloss.Color // first-party bubble border
	second lipgloss.Color // second-party bubble border
	text   lipgloss.Color
	notice lipgloss.Color
	meta   lipgloss.Color
	header lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeLight: {
		first:  lipgloss.Color("28"),  // green
		second: lipgloss.Color("244"), // gray
		text:   lipgloss.Color("235"),
		notice: lipgloss.Color("136"), // amber
		meta:   lipgloss.Color("245"),
		header: lipgloss.Color("24"),
	},
	ThemeDark: {
		first:  lipgloss.Color("42"),
		second: lipgloss.Color("240"),
		text:   lipgloss.Color("252"),
		notice: lipgloss.Color("179"),
		meta:   lipgloss.Color("242"),
		header: lipgloss.Color("75"),
	},
}

type styles struct {
	first  lipgloss.Style
	second lipgloss.Style
	notice lipgloss.Style
	meta   lipgloss.Style
	header lipgloss.Style
}

func newStyles(t Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[ThemeLight]
	}

	bubble := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Foreground(p.text)

	return styles{
		first:  bubble.BorderForeground(p.first),
		second: bubble.BorderForeground(p.second),
		notice: lipgloss.NewStyle().
			Foreground(p.notice).
			Italic(true).
			Align(lipgloss.Center),
		meta: lipgloss.NewStyle().
			Foreground(p.meta).
			Faint(true),
		header: lipgloss.NewStyle().
			Foreground(p.header).
			Bold(true),
	}
}
