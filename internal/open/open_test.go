package open

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"+12", "chat.txt"}},
		{"/usr/bin/nvim", []string{"+12", "chat.txt"}},
		{"code", []string{"--goto", "chat.txt:12"}},
		{"less", []string{"+12", "chat.txt"}},
		{"nano", []string{"chat.txt"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editorArgs(tt.editor, "chat.txt", 12), tt.editor)
	}
}

func TestOpenExportErrors(t *testing.T) {
	err := OpenExport(filepath.Join(t.TempDir(), "WhatsApp Chat - Team.zip"), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unzip")

	err = OpenExport(filepath.Join(t.TempDir(), "missing.txt"), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
