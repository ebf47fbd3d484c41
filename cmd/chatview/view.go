package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/render"
)

func viewCmd() *cobra.Command {
	var swap, asJSON bool
	var width int
	var query, theme string

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Show an export as conversation bubbles",
		Long: `Parse a .txt or .zip export and show it as a conversation. Messages from
the first sender sit on the right, everyone else on the left.

On a terminal the output is styled bubbles; when piped it is a plain
transcript. --json prints the display units instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			res, err := parse.ParseFile(args[0])
			if err != nil {
				return err
			}
			slog.Debug("parsed export",
				"path", res.Meta.Path,
				"lines", res.Meta.Lines,
				"messages", res.Meta.Messages,
				"notices", res.Meta.Notices,
				"dropped", res.Meta.Dropped,
			)

			store := openPrefs(cfg)
			if store != nil {
				defer store.Close()
			}

			swapped := storedSwap(store, args[0])
			if cmd.Flags().Changed("swap") {
				swapped = swap
			}
			maxChars := cfg.Width
			if cmd.Flags().Changed("width") {
				if width <= 0 {
					return fmt.Errorf("--width must be positive")
				}
				maxChars = width
			}

			units := format.Format(res.Records, format.Options{Swapped: swapped, MaxChars: maxChars})

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(units)
			}

			fd := int(os.Stdout.Fd())
			if !term.IsTerminal(fd) {
				fmt.Print(render.Transcript(units))
				return nil
			}

			opts := render.Options{Theme: storedTheme(store), Query: query, Title: res.Meta.Title}
			if theme != "" {
				if opts.Theme, err = render.ParseTheme(theme); err != nil {
					return err
				}
			}
			if w, _, err := term.GetSize(fd); err == nil {
				opts.Width = w
			}
			fmt.Print(render.Render(units, opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&swap, "swap", false, "Swap sides (overrides the saved preference)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap message text at this many characters")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print display units as JSON")
	cmd.Flags().StringVar(&query, "query", "", "Highlight these words")
	cmd.Flags().StringVar(&theme, "theme", "", "Color theme (light/dark)")

	return cmd
}
