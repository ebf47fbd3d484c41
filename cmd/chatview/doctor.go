package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/prefs"
	"github.com/Zuo-Peng/chatview/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify export root, preferences DB, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			checkDir("Export root", cfg.ExportRoot)
			fmt.Printf("  Wrap width: %d\n", cfg.Width)
			fmt.Printf("  Web addr:   %s\n", cfg.Addr)

			fmt.Println("\n=== Exports ===")
			files, err := scan.ScanRoot(cfg.ExportRoot)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
			} else {
				var zips, broken int
				var stats parse.Stats
				for _, f := range files {
					if f.Zip {
						zips++
					}
					res, err := parse.ParseFile(f.Path)
					if err != nil {
						broken++
						continue
					}
					stats.Lines += res.Meta.Lines
					stats.Messages += res.Meta.Messages
					stats.Notices += res.Meta.Notices
					stats.Dropped += res.Meta.Dropped
				}
				fmt.Printf("  Exports:  %d (%d zipped, %d unreadable)\n", len(files), zips, broken)
				fmt.Printf("  Messages: %d\n", stats.Messages)
				fmt.Printf("  Notices:  %d\n", stats.Notices)
				fmt.Printf("  Dropped:  %d of %d lines\n", stats.Dropped, stats.Lines)
			}

			fmt.Println("\n=== Preferences ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first swap or theme change)")
				return nil
			}

			store, err := prefs.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer store.Close()

			ver, err := store.SchemaVersion()
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			chats, err := store.ChatCount()
			if err != nil {
				return fmt.Errorf("count chats: %w", err)
			}
			fmt.Printf("  Schema:  v%s\n", ver)
			fmt.Printf("  Theme:   %s\n", storedTheme(store))
			fmt.Printf("  Swapped: %d chats with saved side preference\n", chats)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %.1f KB ===\n", float64(info.Size())/1024)
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
