// Package format turns parsed export records into display units: it assigns
// conversation roles, substitutes media placeholders and wraps message bodies.
package format

import (
	"strings"

	"github.com/Zuo-Peng/chatview/internal/parse"
	"golang.org/x/text/cases"
)

// DefaultMaxChars is the wrap width used when Options.MaxChars is zero.
const DefaultMaxChars = 100

type Role string

const (
	FirstParty  Role = "first-party"
	SecondParty Role = "second-party"
)

// Opposite returns the other conversation role.
func (r Role) Opposite() Role {
	if r == FirstParty {
		return SecondParty
	}
	return FirstParty
}

type Kind string

const (
	KindNotice    Kind = "notice"
	KindPlainText Kind = "text"
	KindImage     Kind = "image"
	KindAudio     Kind = "audio"
	KindSticker   Kind = "sticker"
	KindGif       Kind = "gif"
	KindVideo     Kind = "video"
)

// IsMedia reports whether k stands for an omitted attachment.
func (k Kind) IsMedia() bool {
	switch k {
	case KindImage, KindAudio, KindSticker, KindGif, KindVideo:
		return true
	}
	return false
}

// DisplayUnit is one renderable item. Notices carry only Kind, Text and Line.
type DisplayUnit struct {
	Kind      Kind   `json:"kind"`
	Role      Role   `json:"role,omitempty"`
	Text      string `json:"text"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Line      int    `json:"line"`
}

type Options struct {
	Swapped  bool // exchange first-party and second-party for every message
	MaxChars int  // wrap width for plain text, 0 = DefaultMaxChars
}

// Format converts records to display units in the same order. It holds no
// state between calls, so re-running it with a different Swapped flag needs
// no re-parse.
func Format(records []parse.Record, opts Options) []DisplayUnit {
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	// a Caser is stateful, one per call
	fold := cases.Fold()
	var ref string
	haveRef := false

	units := make([]DisplayUnit, 0, len(records))
	for _, rec := range records {
		switch rec.Kind {
		case parse.KindNotice:
			units = append(units, DisplayUnit{
				Kind: KindNotice,
				Text: rec.Text,
				Line: rec.Line,
			})

		case parse.KindMessage:
			sender := fold.String(strings.TrimSpace(rec.Sender))
			if !haveRef {
				ref = sender
				haveRef = true
			}

			role := FirstParty
			if sender != ref {
				role = SecondParty
			}
			if opts.Swapped {
				role = role.Opposite()
			}

			kind, text := Body(rec.Body, maxChars)
			units = append(units, DisplayUnit{
				Kind:      kind,
				Role:      role,
				Text:      text,
				Sender:    rec.Sender,
				Timestamp: rec.Timestamp,
				Line:      rec.Line,
			})
		}
	}
	return units
}

// ReferenceSender returns the case-folded sender of the first message, the
// identity every other sender is compared against. It is empty when records
// hold no message.
func ReferenceSender(records []parse.Record) string {
	for _, rec := range records {
		if rec.Kind == parse.KindMessage {
			return cases.Fold().String(strings.TrimSpace(rec.Sender))
		}
	}
	return ""
}
