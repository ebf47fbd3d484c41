package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OpenExport opens a text export in $EDITOR (less when unset) at the given
// 1-based line.
func OpenExport(path string, line int) error {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return fmt.Errorf("cannot open zipped export %s in an editor, unzip it first", path)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if line < 1 {
		line = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	args := editorArgs(editor, path, line)
	cmd := exec.Command(editor, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorArgs(editor, path string, line int) []string {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return []string{fmt.Sprintf("+%d", line), path}
	case strings.Contains(editor, "code"):
		return []string{"--goto", path + ":" + strconv.Itoa(line)}
	case strings.Contains(editor, "less"):
		return []string{"+" + strconv.Itoa(line), path}
	default:
		return []string{path}
	}
}
