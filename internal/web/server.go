package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
)

const maxUpload = 32 << 20 // 32MB

var errNoInput = errors.New("upload a chat export or paste its text")

// ThemeStore is the part of the preference store the web viewer needs.
type ThemeStore interface {
	Theme() (string, error)
	SetTheme(theme string) error
}

type Server struct {
	router   *chi.Mux
	addr     string
	store    ThemeStore
	maxChars int
	page     *template.Template
}

func NewServer(addr string, store ThemeStore, maxChars int) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		addr:     addr,
		store:    store,
		maxChars: maxChars,
		page:     template.Must(template.New("page").Funcs(pageFuncs).Parse(pageHTML)),
	}

	router.Get("/health", s.health)
	router.Get("/", s.index)
	router.Post("/view", s.view)
	router.Post("/api/v1/format", s.apiFormat)
	router.Get("/api/v1/theme", s.getTheme)
	router.Put("/api/v1/theme", s.putTheme)

	return s
}

func (s *Server) Start() error {
	slog.Info("web viewer starting", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentTheme falls back to light when nothing usable is stored.
func (s *Server) currentTheme() render.Theme {
	if s.store == nil {
		return render.ThemeLight
	}
	stored, err := s.store.Theme()
	if err != nil {
		slog.Warn("read theme", "error", err)
		return render.ThemeLight
	}
	theme, err := render.ParseTheme(stored)
	if err != nil {
		return render.ThemeLight
	}
	return theme
}

// saveTheme persists a theme picked on the upload form; failures only cost
// the preference.
func (s *Server) saveTheme(theme render.Theme) {
	if s.store == nil {
		return
	}
	if err := s.store.SetTheme(string(theme)); err != nil {
		slog.Warn("save theme", "error", err)
	}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{Theme: s.currentTheme()})
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	data := pageData{
		Theme:   s.currentTheme(),
		Swapped: formBool(r.FormValue("swapped")),
		Posted:  true,
	}
	if t := r.FormValue("theme"); t != "" {
		if theme, err := render.ParseTheme(t); err == nil {
			data.Theme = theme
			s.saveTheme(theme)
		}
	}

	text, title, err := uploadedText(r)
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	records := parse.Parse(text)
	data.Title = title
	data.Units = format.Format(records, format.Options{Swapped: data.Swapped, MaxChars: s.maxChars})
	s.renderPage(w, http.StatusOK, data)
}

// uploadedText prefers a multipart "file" field and falls back to a pasted
// "text" field.
func uploadedText(r *http.Request) (string, string, error) {
	f, hdr, err := r.FormFile("file")
	switch {
	case err == nil:
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return "", "", err
		}
		text, err := parse.DecodeExport(hdr.Filename, raw)
		if err != nil {
			return "", "", err
		}
		return text, parse.ExportTitle(hdr.Filename), nil
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return "", "", err
	}

	text := r.FormValue("text")
	if strings.TrimSpace(text) == "" {
		return "", "", errNoInput
	}
	return text, "", nil
}

func formBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

type formatResponse struct {
	Title           string               `json:"title,omitempty"`
	ReferenceSender string               `json:"reference_sender"`
	Stats           parse.Stats          `json:"stats"`
	Units           []format.DisplayUnit `json:"units"`
}

func (s *Server) apiFormat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := format.Options{MaxChars: s.maxChars}
	if v := q.Get("swapped"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid swapped value")
			return
		}
		opts.Swapped = b
	}
	if v := q.Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "width must be a positive integer")
			return
		}
		opts.MaxChars = n
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "export too large")
		return
	}

	name := q.Get("name")
	text, err := parse.DecodeExport(name, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, stats := parse.ParseWithStats(text)
	resp := formatResponse{
		ReferenceSender: format.ReferenceSender(records),
		Stats:           stats,
		Units:           format.Format(records, opts),
	}
	if name != "" {
		resp.Title = parse.ExportTitle(name)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(s.currentTheme())})
}

func (s *Server) putTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	theme, err := render.ParseTheme(body.Theme)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "preferences unavailable")
		return
	}
	if err := s.store.SetTheme(string(theme)); err != nil {
		slog.Error("save theme", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save theme")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
}
