package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"

	"github.com/Zuo-Peng/chatview/internal/scan"
)

// linesPerItem is the number of terminal lines each export occupies.
const linesPerItem = 2

// filterFiles keeps exports whose title or path contains every word of query,
// ignoring case.
func filterFiles(files []scan.FileInfo, query string) []scan.FileInfo {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return files
	}

	fold := cases.Fold()
	var out []scan.FileInfo
	for _, f := range files {
		hay := fold.String(f.Title + " " + f.Path)
		match := true
		for _, t := range terms {
			if !strings.Contains(hay, fold.String(t)) {
				match = false
				break
			}
		}
		if match {
			out = append(out, f)
		}
	}
	return out
}

// renderList renders the left panel with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No chat exports")
	}

	var lines []string
	for i, f := range m.visible {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatFileLine(f, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatFileLine formats one export as two lines:
//
//	line 1: [>] MM-DD  title [zip]
//	line 2:    path (dimmed)
func formatFileLine(f scan.FileInfo, width int, selected bool) []string {
	date := time.Unix(f.Mtime, 0).Format("01-02")

	tag := ""
	if f.Zip {
		tag = " " + styleZipTag.Render("zip")
	}

	titleMax := max(width-2-6-4, 0) // prefix + date + tag
	title := f.Title
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "…")
	}

	line1 := date + " " + title + tag
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	path := f.Path
	pathMax := max(width-4, 0)
	if runewidth.StringWidth(path) > pathMax {
		// keep the tail, it holds the file name
		path = runewidth.TruncateLeft(path, runewidth.StringWidth(path)-pathMax+1, "…")
	}
	line2 := "    " + styleDim.Render(path)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
