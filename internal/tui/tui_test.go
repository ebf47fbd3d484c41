package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chatview/internal/render"
	"github.com/Zuo-Peng/chatview/internal/scan"
)

type fakePrefs struct {
	swapped map[string]bool
	theme   string
	err     error
}

func (f *fakePrefs) Swapped(path string) (bool, error) { return f.swapped[path], f.err }

func (f *fakePrefs) ToggleSwapped(path string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.swapped[path] = !f.swapped[path]
	return f.swapped[path], nil
}

func (f *fakePrefs) SetTheme(theme string) error {
	f.theme = theme
	return f.err
}

var testFiles = []scan.FileInfo{
	{Path: "/exports/WhatsApp Chat with Alice.txt", Title: "Alice", Mtime: 1700000000},
	{Path: "/exports/WhatsApp Chat - Team.zip", Title: "Team", Zip: true, Mtime: 1690000000},
	{Path: "/exports/Bob/_chat.txt", Title: "Bob", Mtime: 1680000000},
}

func TestFilterFiles(t *testing.T) {
	assert.Len(t, filterFiles(testFiles, ""), 3)
	assert.Equal(t, []scan.FileInfo{testFiles[0]}, filterFiles(testFiles, "ALI"))
	assert.Equal(t, []scan.FileInfo{testFiles[1]}, filterFiles(testFiles, "team zip"))
	assert.Empty(t, filterFiles(testFiles, "alice team"))
}

func TestFormatFileLine(t *testing.T) {
	rows := formatFileLine(testFiles[1], 40, true)
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Team")
	assert.Contains(t, rows[0], "zip")
	assert.Contains(t, rows[0], "> ")
	assert.Contains(t, rows[1], "Team.zip")

	rows = formatFileLine(scan.FileInfo{Path: "/a/very/long/path/to/some/WhatsApp Chat with Someone.txt", Title: "Someone"}, 20, false)
	assert.True(t, strings.HasPrefix(rows[0], "  "))
	assert.Contains(t, rows[1], "…")
	assert.Contains(t, rows[1], ".txt")
}

func TestSwapToggle(t *testing.T) {
	prefs := &fakePrefs{swapped: map[string]bool{}}
	m := initialModel(prefs, testFiles, Options{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, swapToggledMsg{}, msg)
	assert.True(t, prefs.swapped[testFiles[0].Path])

	next, _ = next.(model).Update(msg)
	nm := next.(model)
	assert.True(t, nm.isSwapped(testFiles[0].Path))
	assert.Contains(t, nm.statusBar(), "swapped")
}

func TestSwapToggleWithoutStore(t *testing.T) {
	m := initialModel(nil, testFiles, Options{})
	msg := m.toggleSwapCmd(testFiles[0].Path)()

	next, _ := m.Update(msg)
	assert.True(t, next.(model).isSwapped(testFiles[0].Path))
}

func TestSwapToggleError(t *testing.T) {
	prefs := &fakePrefs{swapped: map[string]bool{}, err: errors.New("readonly")}
	m := initialModel(prefs, testFiles, Options{})

	next, _ := m.Update(m.toggleSwapCmd(testFiles[0].Path)())
	nm := next.(model)
	assert.Contains(t, nm.status, "readonly")
	assert.True(t, nm.swapped[testFiles[0].Path], "the view still flips for this session")
}

func TestThemeToggle(t *testing.T) {
	prefs := &fakePrefs{swapped: map[string]bool{}}
	m := initialModel(prefs, testFiles, Options{Theme: render.ThemeLight})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	nm := next.(model)
	assert.Equal(t, render.ThemeDark, nm.theme)

	msg := nm.saveThemeCmd()()
	assert.Equal(t, themeSavedMsg{}, msg)
	assert.Equal(t, "dark", prefs.theme)
}

func TestDebouncedFilter(t *testing.T) {
	m := initialModel(nil, testFiles, Options{})
	m.cursor = 2 // Bob
	m.query = "b"

	next, _ := m.Update(debounceTickMsg{query: "stale"})
	assert.Len(t, next.(model).visible, 3, "stale ticks do nothing")

	next, _ = m.Update(debounceTickMsg{query: "b"})
	nm := next.(model)
	require.Len(t, nm.visible, 1)
	assert.Equal(t, "Bob", nm.visible[0].Title)
	assert.Equal(t, 0, nm.cursor)
}

func TestStalePreviewIgnored(t *testing.T) {
	m := initialModel(nil, testFiles, Options{})
	next, _ := m.Update(previewRenderedMsg{key: "elsewhere", content: "nope"})
	assert.Empty(t, next.(model).previewKey)
}

func TestLoadPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "WhatsApp Chat with Alice.txt")
	require.NoError(t, os.WriteFile(path, []byte("[1/1/23, 10:00] Alice: Hello there\n[1/1/23, 10:01] Bob: hi\n"), 0o644))

	files := []scan.FileInfo{{Path: path, Title: "Alice"}}
	m := initialModel(nil, files, Options{})

	req, ok := m.currentRequest()
	require.True(t, ok)
	msg := loadPreviewCmd(req)().(previewRenderedMsg)
	require.NoError(t, msg.err)
	assert.Contains(t, msg.content, "Hello there")

	next, _ := m.Update(msg)
	assert.Equal(t, req.key(), next.(model).previewKey)
}
