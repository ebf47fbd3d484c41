package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// EncryptionBanner replaces any line that mentions end-to-end encryption.
const EncryptionBanner = "🔒 Messages are end-to-end encrypted. No one outside of this page, not even WhatsApp, can read or listen to them."

const encryptedMarker = "end-to-end encrypted"

// messageRe matches "[<timestamp>] <sender>: <body>". The timestamp stops at
// the first ']' and the sender at the first ':' so colons in the body survive.
var messageRe = regexp.MustCompile(`\[(.*?)\]\s+(.*?):\s*(.*)`)

var bidiMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r == '\u200e' || r == '\u200f'
}))

// StripBidi removes the left-to-right and right-to-left marks the exporter
// sprinkles around timestamps and attachments.
func StripBidi(s string) string {
	out, _, err := transform.String(bidiMarks, s)
	if err != nil {
		return strings.NewReplacer("\u200e", "", "\u200f", "").Replace(s)
	}
	return out
}

// Classify matches one raw line. The returned Record is only meaningful when
// the class is ClassNotice or ClassMessage; Line is left for the caller.
func Classify(line string) (Class, Record) {
	clean := strings.TrimSpace(StripBidi(line))
	if clean == "" {
		return ClassNoMatch, Record{}
	}

	if strings.Contains(clean, encryptedMarker) {
		return ClassNotice, Record{Kind: KindNotice, Text: EncryptionBanner}
	}

	m := messageRe.FindStringSubmatch(clean)
	if m == nil {
		return ClassNoMatch, Record{}
	}

	sender := strings.TrimSpace(m[2])
	if sender == "" {
		return ClassNoMatch, Record{}
	}

	return ClassMessage, Record{
		Kind:      KindMessage,
		Timestamp: m[1],
		Sender:    sender,
		Body:      strings.TrimSpace(m[3]),
	}
}
