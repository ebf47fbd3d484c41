package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/scan"
	"github.com/Zuo-Peng/chatview/internal/tui"
)

func browseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse exports interactively",
		Long: `Open a two-panel browser: exports on the left, the selected chat on the
right. Type to filter, C-s swaps sides, C-t toggles the theme, Enter copies
the plain transcript to the clipboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			files, err := scan.ScanRoot(cfg.ExportRoot)
			if err != nil {
				return fmt.Errorf("scan %s: %w", cfg.ExportRoot, err)
			}

			store := openPrefs(cfg)
			opts := tui.Options{MaxChars: cfg.Width, Theme: storedTheme(store)}
			if store == nil {
				return tui.Run(nil, files, opts)
			}
			defer store.Close()
			return tui.Run(store, files, opts)
		},
	}
}
