package parse

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "[1/1/23, 09:59] Alice: \u200eMessages and calls are end-to-end encrypted. Tap to learn more.\n" +
	"[1/1/23, 10:00] Alice: Hello there\n" +
	"[1/1/23, 10:01] Bob: hi! meet at 10:30?\n" +
	"this line continues the previous message\n" +
	"\n" +
	"\u200e[1/1/23, 10:02] Bob: \u200eimage omitted\n" +
	"[1/1/23, 10:03] alice: sure\r\n"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		class Class
		want  Record
	}{
		{
			name:  "standard message",
			line:  "[1/1/23, 10:00] Alice: Hello there",
			class: ClassMessage,
			want:  Record{Kind: KindMessage, Timestamp: "1/1/23, 10:00", Sender: "Alice", Body: "Hello there"},
		},
		{
			name:  "colon in body stays in body",
			line:  "[2/3/24, 18:04:11] Bob: see you at 10:30: bring snacks",
			class: ClassMessage,
			want:  Record{Kind: KindMessage, Timestamp: "2/3/24, 18:04:11", Sender: "Bob", Body: "see you at 10:30: bring snacks"},
		},
		{
			name:  "bidi marks stripped",
			line:  "\u200e[1/1/23, 10:02] Bob: \u200esticker omitted\u200f",
			class: ClassMessage,
			want:  Record{Kind: KindMessage, Timestamp: "1/1/23, 10:02", Sender: "Bob", Body: "sticker omitted"},
		},
		{
			name:  "sender and body trimmed",
			line:  "  [ts]   Carol Smith  :   spaced out   ",
			class: ClassMessage,
			want:  Record{Kind: KindMessage, Timestamp: "ts", Sender: "Carol Smith", Body: "spaced out"},
		},
		{
			name:  "empty body is still a message",
			line:  "[ts] Dave:",
			class: ClassMessage,
			want:  Record{Kind: KindMessage, Timestamp: "ts", Sender: "Dave", Body: ""},
		},
		{
			name:  "encryption banner",
			line:  "[1/1/23, 09:59] Alice: Messages and calls are end-to-end encrypted. Only people in this chat can read them.",
			class: ClassNotice,
			want:  Record{Kind: KindNotice, Text: EncryptionBanner},
		},
		{
			name:  "encryption banner without grammar",
			line:  "Your security code changed, chats stay end-to-end encrypted",
			class: ClassNotice,
			want:  Record{Kind: KindNotice, Text: EncryptionBanner},
		},
		{name: "continuation line", line: "and this is the second line", class: ClassNoMatch},
		{name: "blank", line: "   ", class: ClassNoMatch},
		{name: "only bidi marks", line: "\u200e\u200f", class: ClassNoMatch},
		{name: "missing sender separator", line: "[1/1/23, 10:00] Alice says hi", class: ClassNoMatch},
		{name: "empty sender", line: "[1/1/23, 10:00] : orphan body", class: ClassNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, rec := Classify(tt.line)
			require.Equal(t, tt.class, class)
			if class != ClassNoMatch {
				assert.Equal(t, tt.want, rec)
			}
		})
	}
}

func TestParseScenario(t *testing.T) {
	records := Parse("[1/1/23, 10:00] Alice: Hello there")
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		Kind:      KindMessage,
		Timestamp: "1/1/23, 10:00",
		Sender:    "Alice",
		Body:      "Hello there",
		Line:      1,
	}, records[0])
}

func TestParseKeepsOrderAndDropsContinuations(t *testing.T) {
	records := Parse(sampleExport)
	require.Len(t, records, 5)

	assert.Equal(t, KindNotice, records[0].Kind)
	assert.Equal(t, EncryptionBanner, records[0].Text)

	var senders, bodies []string
	var lines []int
	for _, r := range records[1:] {
		require.Equal(t, KindMessage, r.Kind)
		require.NotEmpty(t, r.Sender)
		senders = append(senders, r.Sender)
		bodies = append(bodies, r.Body)
		lines = append(lines, r.Line)
	}
	assert.Equal(t, []string{"Alice", "Bob", "Bob", "alice"}, senders)
	assert.Equal(t, []string{"Hello there", "hi! meet at 10:30?", "image omitted", "sure"}, bodies)
	assert.Equal(t, []int{2, 3, 6, 7}, lines)
}

func TestEncryptionBannerWording(t *testing.T) {
	assert.Equal(t, "🔒 Messages are end-to-end encrypted. No one outside of this page, not even WhatsApp, can read or listen to them.", EncryptionBanner)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n  \n"))
	assert.Empty(t, Parse("no grammar here\nnor here"))
}

func TestParseBannerAppearsOncePerLine(t *testing.T) {
	records := Parse("Messages and calls are end-to-end encrypted\n[a] B: c\nend-to-end encrypted again")
	require.Len(t, records, 3)
	assert.Equal(t, KindNotice, records[0].Kind)
	assert.Equal(t, KindMessage, records[1].Kind)
	assert.Equal(t, KindNotice, records[2].Kind)
}

func TestParseTextStats(t *testing.T) {
	_, stats := ParseWithStats(sampleExport)
	assert.Equal(t, Stats{Lines: 6, Notices: 1, Messages: 4, Dropped: 1}, stats)
}

func TestParseFileText(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "WhatsApp Chat with Alice.txt")
	require.NoError(t, os.WriteFile(p, []byte("\xef\xbb\xbf"+sampleExport), 0o644))

	res, err := ParseFile(p)
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Meta.Title)
	assert.Equal(t, p, res.Meta.Path)
	assert.Equal(t, 4, res.Meta.Messages)
	assert.Equal(t, 1, res.Meta.Dropped)
	require.Len(t, res.Records, 5)
	assert.Equal(t, "Alice", res.Records[1].Sender, "BOM must not leak into the first record")
}

func TestParseFileZip(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "WhatsApp Chat - Book Club.zip")

	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	img, err := zw.Create("IMG-0001.jpg")
	require.NoError(t, err)
	_, err = img.Write([]byte{0xff, 0xd8, 0xff})
	require.NoError(t, err)
	chat, err := zw.Create("_chat.txt")
	require.NoError(t, err)
	_, err = chat.Write([]byte(sampleExport))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	res, err := ParseFile(p)
	require.NoError(t, err)
	assert.Equal(t, "Book Club", res.Meta.Title)
	assert.Len(t, res.Records, 5)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestDecodeExportZipWithoutText(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "media.zip")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("IMG-0001.jpg")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	_, err = DecodeExport("media.zip", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chat text")
}

func TestDecodeExportInvalidUTF8(t *testing.T) {
	text, err := DecodeExport("chat.txt", []byte("[a] B: caf\xe9"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(text, "caf\uFFFD"))
}

func TestExportTitle(t *testing.T) {
	tests := map[string]string{
		"/x/WhatsApp Chat with Alice.txt":     "Alice",
		"/x/WhatsApp Chat - Team.zip":         "Team",
		"/x/WhatsApp Chat - Family/_chat.txt": "Family",
		"/x/notes.txt":                        "notes",
		"_chat.txt":                           "_chat",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExportTitle(in), in)
	}
}
