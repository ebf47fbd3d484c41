package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
	"github.com/Zuo-Peng/chatview/internal/scan"
)

const debounceDelay = 200 * time.Millisecond

// Prefs is the part of the preference store the browser writes to.
type Prefs interface {
	Swapped(path string) (bool, error)
	ToggleSwapped(path string) (bool, error)
	SetTheme(theme string) error
}

type Options struct {
	MaxChars int
	Theme    render.Theme
}

type debounceTickMsg struct {
	query string
}

type swapToggledMsg struct {
	path    string
	swapped bool
	err     error
}

type themeSavedMsg struct {
	err error
}

type model struct {
	prefs       Prefs
	opts        Options
	files       []scan.FileInfo
	visible     []scan.FileInfo
	swapped     map[string]bool
	theme       render.Theme
	query       string
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // request currently shown, to skip duplicate renders
	status      string
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *scan.FileInfo
}

func initialModel(prefs Prefs, files []scan.FileInfo, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter chats..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	theme := opts.Theme
	if theme == "" {
		theme = render.ThemeLight
	}

	return model{
		prefs:       prefs,
		opts:        opts,
		files:       files,
		visible:     files,
		swapped:     make(map[string]bool),
		theme:       theme,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the browser and blocks until it exits. Choosing an export copies
// its plain transcript to the clipboard.
func Run(prefs Prefs, files []scan.FileInfo, opts Options) error {
	m := initialModel(prefs, files, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected != nil {
		return copyTranscript(*fm.selected, fm.isSwapped(fm.selected.Path), opts.MaxChars)
	}
	return nil
}

func copyTranscript(f scan.FileInfo, swapped bool, maxChars int) error {
	res, err := parse.ParseFile(f.Path)
	if err != nil {
		return err
	}
	units := format.Format(res.Records, format.Options{Swapped: swapped, MaxChars: maxChars})
	text := render.Transcript(units)

	if err := clipboard.WriteAll(text); err != nil {
		fmt.Print(text)
		return nil
	}
	fmt.Printf("Copied transcript of %s to clipboard (%d messages)\n", f.Title, res.Meta.Messages)
	return nil
}

// isSwapped consults the session cache first, then the store.
func (m model) isSwapped(path string) bool {
	if v, ok := m.swapped[path]; ok {
		return v
	}
	if m.prefs == nil {
		return false
	}
	v, err := m.prefs.Swapped(path)
	if err != nil {
		return false
	}
	m.swapped[path] = v
	return v
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCurrentPreview())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if f, ok := m.current(); ok {
				m.selected = &f
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Swap):
			if f, ok := m.current(); ok {
				return m, m.toggleSwapCmd(f.Path)
			}
			return m, nil

		case key.Matches(msg, keys.Theme):
			m.theme = m.theme.Toggle()
			cmds = append(cmds, m.saveThemeCmd(), m.loadCurrentPreview())
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, scheduleDebouncedFilter(q))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.visible) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(len(m.visible)-m.panelHeight()/linesPerItem, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.visible) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case debounceTickMsg:
		// stale ticks are dropped
		if msg.query != m.query {
			return m, nil
		}
		m.applyFilter()
		return m, m.loadCurrentPreview()

	case swapToggledMsg:
		if msg.err != nil {
			m.status = "swap not saved: " + msg.err.Error()
		} else {
			m.status = ""
		}
		m.swapped[msg.path] = msg.swapped
		return m, m.loadCurrentPreview()

	case themeSavedMsg:
		if msg.err != nil {
			m.status = "theme not saved: " + msg.err.Error()
		}
		return m, nil

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			return m, nil
		}
		if req, ok := m.currentRequest(); !ok || req.key() != msg.key {
			return m, nil // stale preview
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// applyFilter recomputes the visible list, keeping the cursor on the same
// export when it survives the filter.
func (m *model) applyFilter() {
	var keep string
	if f, ok := m.current(); ok {
		keep = f.Path
	}

	m.visible = filterFiles(m.files, m.query)
	m.cursor = 0
	m.listOffset = 0
	for i, f := range m.visible {
		if f.Path == keep {
			m.cursor = i
			break
		}
	}
	m.adjustListScroll(m.panelHeight())
	if len(m.visible) == 0 {
		m.preview.SetContent("")
		m.previewKey = ""
	}
}

func (m model) current() (scan.FileInfo, bool) {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return scan.FileInfo{}, false
	}
	return m.visible[m.cursor], true
}

func (m model) currentRequest() (previewRequest, bool) {
	f, ok := m.current()
	if !ok {
		return previewRequest{}, false
	}
	return previewRequest{
		path:     f.Path,
		swapped:  m.isSwapped(f.Path),
		theme:    m.theme,
		query:    m.query,
		width:    m.previewWidth(),
		maxChars: m.opts.MaxChars,
	}, true
}

func (m model) loadCurrentPreview() tea.Cmd {
	req, ok := m.currentRequest()
	if !ok || req.key() == m.previewKey {
		return nil
	}
	return loadPreviewCmd(req)
}

func (m model) toggleSwapCmd(path string) tea.Cmd {
	prefs := m.prefs
	next := !m.isSwapped(path)
	return func() tea.Msg {
		if prefs == nil {
			return swapToggledMsg{path: path, swapped: next}
		}
		swapped, err := prefs.ToggleSwapped(path)
		if err != nil {
			return swapToggledMsg{path: path, swapped: next, err: err}
		}
		return swapToggledMsg{path: path, swapped: swapped}
	}
}

func (m model) saveThemeCmd() tea.Cmd {
	prefs := m.prefs
	theme := m.theme
	return func() tea.Msg {
		if prefs == nil {
			return themeSavedMsg{}
		}
		return themeSavedMsg{err: prefs.SetTheme(string(theme))}
	}
}

func scheduleDebouncedFilter(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(m.width*35/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*65/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row (1) + status bar (1) + borders (4)
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + m.panelHeight() - 1
	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > lw+2 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d/%d chats", len(m.visible), len(m.files))}
	if f, ok := m.current(); ok && m.isSwapped(f.Path) {
		parts = append(parts, "swapped")
	}
	parts = append(parts, string(m.theme))
	if m.status != "" {
		parts = append(parts, m.status)
	}
	for _, b := range []key.Binding{keys.Swap, keys.Theme, keys.Enter, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
