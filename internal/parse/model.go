package parse

import "time"

type Kind string

const (
	KindNotice  Kind = "notice"
	KindMessage Kind = "message"
)

// Record is one classified line of a chat export.
type Record struct {
	Kind      Kind
	Text      string // notice text, empty for messages
	Timestamp string // opaque, never parsed as a date
	Sender    string
	Body      string
	Line      int // 1-based line number in the export
}

// Class is the outcome of matching a single line against the export grammar.
type Class int

const (
	ClassNoMatch Class = iota
	ClassNotice
	ClassMessage
)

func (c Class) String() string {
	switch c {
	case ClassNotice:
		return "notice"
	case ClassMessage:
		return "message"
	default:
		return "nomatch"
	}
}

type Stats struct {
	Lines    int `json:"lines"` // non-empty lines seen
	Notices  int `json:"notices"`
	Messages int `json:"messages"`
	Dropped  int `json:"dropped"` // non-empty lines that matched nothing
}

type ExportMeta struct {
	Path  string
	Title string
	Mtime time.Time
	Size  int64
	Stats
}

type ParseResult struct {
	Meta    ExportMeta
	Records []Record
}
