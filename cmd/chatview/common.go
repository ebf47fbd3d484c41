package main

import (
	"log/slog"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/prefs"
	"github.com/Zuo-Peng/chatview/internal/render"
)

// openPrefs opens the preference store. A broken store only costs the saved
// preferences, so callers get nil and a warning instead of an error.
func openPrefs(cfg *config.Config) *prefs.Store {
	store, err := prefs.Open(cfg.DBPath)
	if err != nil {
		slog.Warn("preferences unavailable", "db", cfg.DBPath, "error", err)
		return nil
	}
	return store
}

func storedSwap(store *prefs.Store, path string) bool {
	if store == nil {
		return false
	}
	swapped, err := store.Swapped(path)
	if err != nil {
		slog.Warn("read swap preference", "path", path, "error", err)
		return false
	}
	return swapped
}

func storedTheme(store *prefs.Store) render.Theme {
	if store == nil {
		return render.ThemeLight
	}
	name, err := store.Theme()
	if err != nil || name == "" {
		return render.ThemeLight
	}
	theme, err := render.ParseTheme(name)
	if err != nil {
		slog.Warn("ignoring stored theme", "theme", name, "error", err)
		return render.ThemeLight
	}
	return theme
}
