package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/render"
)

type pageData struct {
	Theme   render.Theme
	Title   string
	Swapped bool
	Posted  bool
	Error   string
	Units   []format.DisplayUnit
}

var pageFuncs = template.FuncMap{
	// side maps a role to the bubble class: first-party messages are "sent".
	"side": func(r format.Role) string {
		if r == format.FirstParty {
			return "sent"
		}
		return "received"
	},
	"isNotice": func(k format.Kind) bool { return k == format.KindNotice },
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		slog.Error("render page", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} · {{end}}chatview</title>
<style>
:root { --bg: #efeae2; --fg: #111b21; --sent: #d9fdd3; --received: #ffffff; --meta: #667781; --notice: #fff5c4; }
[data-theme="dark"] { --bg: #0b141a; --fg: #e9edef; --sent: #005c4b; --received: #202c33; --meta: #8696a0; --notice: #182229; }
body { background: var(--bg); color: var(--fg); font-family: sans-serif; margin: 0 auto; max-width: 900px; padding: 1em; }
form { margin-bottom: 1em; }
.message { display: flex; margin: 4px 0; }
.message.sent { justify-content: flex-end; }
.message.received { justify-content: flex-start; }
.message.notice { justify-content: center; }
.bubble { border-radius: 8px; padding: 6px 10px; max-width: 75%; white-space: pre-wrap; }
.sent .bubble { background: var(--sent); }
.received .bubble { background: var(--received); }
.notice .bubble { background: var(--notice); font-size: 0.9em; text-align: center; }
.media { font-style: italic; }
.timestamp { color: var(--meta); font-size: 0.75em; margin-top: 2px; text-align: right; }
.error { color: #c0392b; }
</style>
</head>
<body data-theme="{{.Theme}}">
<form method="post" action="/view" enctype="multipart/form-data">
  <input type="file" name="file" accept=".txt,.zip">
  <label><input type="checkbox" name="swapped"{{if .Swapped}} checked{{end}}> swap sides</label>
  <select name="theme">
    <option value="light"{{if eq (print .Theme) "light"}} selected{{end}}>light</option>
    <option value="dark"{{if eq (print .Theme) "dark"}} selected{{end}}>dark</option>
  </select>
  <button type="submit">Show chat</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Title}}<h2>{{.Title}}</h2>{{end}}
<div id="chat-container">
{{range .Units}}{{if isNotice .Kind}}<div class="message notice"><div class="bubble">{{.Text}}</div></div>
{{else}}<div class="message {{side .Role}}"><div class="bubble{{if .Kind.IsMedia}} media {{.Kind}}-bubble{{end}}">{{.Text}}<div class="timestamp">{{.Sender}} • {{.Timestamp}}</div></div></div>
{{end}}{{else}}{{if .Posted}}<p>No messages found.</p>{{end}}{{end}}
</div>
</body>
</html>
`
