package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
)

const DefaultWidth = 100

type Config struct {
	ExportRoot string `toml:"export_root" env:"CHATVIEW_EXPORT_ROOT"`
	DBPath     string `toml:"db_path" env:"CHATVIEW_DB_PATH"`
	Width      int    `toml:"width" env:"CHATVIEW_WIDTH"`
	Addr       string `toml:"addr" env:"CHATVIEW_ADDR"`
}

// Load reads ~/.config/chatview/config.toml if present, then applies
// CHATVIEW_* environment overrides.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(home, filepath.Join(home, ".config", "chatview", "config.toml"))
}

func LoadFrom(home, cfgPath string) (*Config, error) {
	cfg := &Config{
		ExportRoot: filepath.Join(home, "Downloads"),
		DBPath:     filepath.Join(home, ".config", "chatview", "chatview.db"),
		Width:      DefaultWidth,
		Addr:       "127.0.0.1:8765",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}

	// expand ~ in paths
	cfg.ExportRoot = expandHome(cfg.ExportRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
