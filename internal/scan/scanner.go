package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Zuo-Peng/chatview/internal/parse"
)

type FileInfo struct {
	Path  string
	Title string
	Zip   bool
	Mtime int64
	Size  int64
}

// IsExport reports whether a file name looks like a chat export: the
// "_chat.txt" member of an unpacked export, or a "WhatsApp Chat ..." .txt/.zip.
func IsExport(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".txt" && ext != ".zip" {
		return false
	}
	if name == "_chat.txt" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), "whatsapp chat")
}

// ScanRoot walks root for chat exports, newest first. A missing root yields
// no files and no error.
func ScanRoot(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsExport(info.Name()) {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Title: parse.ExportTitle(path),
			Zip:   strings.EqualFold(filepath.Ext(path), ".zip"),
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Mtime != files[j].Mtime {
			return files[i].Mtime > files[j].Mtime
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}
