package format

import "strings"

// placeholders maps the exporter's exact wording for omitted attachments.
// Matching is case-sensitive.
var placeholders = map[string]Kind{
	"image omitted":   KindImage,
	"audio omitted":   KindAudio,
	"sticker omitted": KindSticker,
	"GIF omitted":     KindGif,
	"video omitted":   KindVideo,
}

var tokens = map[Kind]string{
	KindImage:   "📷 [Image]",
	KindAudio:   "► ······||||lllll|||||||lll···|||lll·· 🎤 [Audio]",
	KindSticker: "✧(•̀ω•́)✧ [Sticker]",
	KindGif:     "👾 [GIF]",
	KindVideo:   "🎞️ [video]",
}

// Token returns the display text for a media kind, or "" for other kinds.
func Token(k Kind) string {
	return tokens[k]
}

// Body classifies a message body. Placeholder bodies become their media kind
// and token; anything else is plain text wrapped at maxChars.
func Body(body string, maxChars int) (Kind, string) {
	trimmed := strings.TrimSpace(body)
	if kind, ok := placeholders[trimmed]; ok {
		return kind, tokens[kind]
	}
	return KindPlainText, Wrap(trimmed, maxChars)
}
