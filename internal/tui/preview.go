package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	err     error
}

type previewRequest struct {
	path     string
	swapped  bool
	theme    render.Theme
	query    string
	width    int
	maxChars int
}

// key identifies everything that changes the rendered output.
func (r previewRequest) key() string {
	return fmt.Sprintf("%s|%t|%s|%s|%d|%d", r.path, r.swapped, r.theme, r.query, r.width, r.maxChars)
}

// loadPreviewCmd parses, formats and renders an export off the UI goroutine.
func loadPreviewCmd(req previewRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := parse.ParseFile(req.path)
		if err != nil {
			return previewRenderedMsg{key: req.key(), err: err}
		}
		units := format.Format(res.Records, format.Options{Swapped: req.swapped, MaxChars: req.maxChars})
		content := render.Render(units, render.Options{
			Width: req.width,
			Theme: req.theme,
			Query: req.query,
			Title: res.Meta.Title,
		})
		return previewRenderedMsg{key: req.key(), content: content}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
