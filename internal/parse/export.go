package parse

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const maxExportSize = 64 * 1024 * 1024 // 64MB of text

// Parse classifies every line of an export and returns notices and messages
// in input order. Unmatched lines, continuation lines included, are dropped.
func Parse(text string) []Record {
	records, _ := ParseWithStats(text)
	return records
}

// ParseWithStats is Parse that also counts what happened to each line.
func ParseWithStats(text string) ([]Record, Stats) {
	var records []Record
	var stats Stats

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		stats.Lines++

		class, rec := Classify(line)
		switch class {
		case ClassNotice:
			stats.Notices++
		case ClassMessage:
			stats.Messages++
		default:
			stats.Dropped++
			continue
		}
		rec.Line = i + 1
		records = append(records, rec)
	}

	return records, stats
}

// ParseFile reads a .txt export, or the chat member of a .zip export, and
// parses it.
func ParseFile(filePath string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxExportSize {
		return nil, fmt.Errorf("export %s is too large (%d bytes)", filePath, info.Size())
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	text, err := DecodeExport(filepath.Base(filePath), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	records, stats := ParseWithStats(text)
	return &ParseResult{
		Meta: ExportMeta{
			Path:  filePath,
			Title: ExportTitle(filePath),
			Mtime: info.ModTime(),
			Size:  info.Size(),
			Stats: stats,
		},
		Records: records,
	}, nil
}

// DecodeExport turns the bytes of an uploaded or on-disk export into text.
// Zip archives are unpacked to their chat member; a UTF-8 BOM is dropped and
// invalid sequences become U+FFFD.
func DecodeExport(name string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(name), ".zip") || isZip(data) {
		member, err := readChatMember(data)
		if err != nil {
			return "", err
		}
		data = member
	}

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	}
	return string(data), nil
}

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

// readChatMember returns _chat.txt from the archive, falling back to the
// first .txt member.
func readChatMember(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var chosen *zip.File
	for _, zf := range zr.File {
		base := path.Base(zf.Name)
		if base == "_chat.txt" {
			chosen = zf
			break
		}
		if chosen == nil && strings.EqualFold(path.Ext(base), ".txt") {
			chosen = zf
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("no chat text found in zip")
	}
	if chosen.UncompressedSize64 > maxExportSize {
		return nil, fmt.Errorf("chat member %s is too large", chosen.Name)
	}

	rc, err := chosen.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", chosen.Name, err)
	}
	defer rc.Close()

	return io.ReadAll(io.LimitReader(rc, maxExportSize))
}

// ExportTitle derives a chat title from an export file name, e.g.
// "WhatsApp Chat with Alice.txt" -> "Alice". Bare "_chat.txt" files take the
// name of their directory.
func ExportTitle(filePath string) string {
	base := filepath.Base(filePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	if name == "_chat" {
		dir := filepath.Base(filepath.Dir(filePath))
		if dir == "." || dir == string(filepath.Separator) {
			return name
		}
		name = dir
	}

	for _, prefix := range []string{"WhatsApp Chat with ", "WhatsApp Chat - ", "WhatsApp Chat "} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(name, prefix))
		}
	}
	return name
}
