// Package prefs persists presentation preferences (theme, per-chat swap
// flag) in a local sqlite database. It never stores parsed messages.
package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_prefs (
    path       TEXT PRIMARY KEY,
    swapped    INTEGER NOT NULL DEFAULT 0,
    updated_at TEXT NOT NULL DEFAULT ''
);
`

// schemaVersion is bumped whenever a stored preference changes meaning.
const schemaVersion = "1"

const themeKey = "theme"

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one connection keeps the pragmas and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrateSchemaVersion() error {
	var ver string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	_, err = s.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SchemaVersion() (string, error) {
	var ver string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	return ver, err
}

// Theme returns the stored theme name, or "" when none was saved.
func (s *Store) Theme() (string, error) {
	var theme string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", themeKey).Scan(&theme)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return theme, err
}

func (s *Store) SetTheme(theme string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		themeKey, theme,
	)
	return err
}

// chatKey identifies an export by its absolute path.
func chatKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Swapped reports the saved swap flag for an export; unknown exports are not
// swapped.
func (s *Store) Swapped(path string) (bool, error) {
	var swapped bool
	err := s.db.QueryRow("SELECT swapped FROM chat_prefs WHERE path = ?", chatKey(path)).Scan(&swapped)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return swapped, err
}

func (s *Store) SetSwapped(path string, swapped bool) error {
	_, err := s.db.Exec(
		`INSERT INTO chat_prefs (path, swapped, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET swapped = excluded.swapped, updated_at = excluded.updated_at`,
		chatKey(path), swapped, now(),
	)
	return err
}

// ToggleSwapped flips the swap flag for an export and returns the new value.
func (s *Store) ToggleSwapped(path string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	key := chatKey(path)
	_, err = tx.Exec(
		`INSERT INTO chat_prefs (path, swapped, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT(path) DO UPDATE SET swapped = 1 - swapped, updated_at = excluded.updated_at`,
		key, now(),
	)
	if err != nil {
		return false, err
	}

	var swapped bool
	if err := tx.QueryRow("SELECT swapped FROM chat_prefs WHERE path = ?", key).Scan(&swapped); err != nil {
		return false, err
	}
	return swapped, tx.Commit()
}

func (s *Store) ChatCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM chat_prefs").Scan(&n)
	return n, err
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
