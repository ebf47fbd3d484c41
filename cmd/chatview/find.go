package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/scan"
	"github.com/Zuo-Peng/chatview/internal/search"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeSender(sender string, role format.Role) string {
	if role == format.FirstParty {
		return sColorGreen + sender + sColorReset
	}
	return sColorBlue + sender + sColorReset
}

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func plainSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", "")
	return strings.ReplaceAll(snippet, "<<<", "")
}

func findCmd() *cobra.Command {
	var role string
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query> [file...]",
		Short: "Search messages in exports",
		Long: `Search message text and sender names, case-insensitively. Without files,
every export under the export root is searched. Output is TSV:
  path, message index, timestamp, sender, snippet

The first two fields pair with 'chatview open <path> --message <index>'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := search.Options{Query: args[0], Limit: limit}
			switch format.Role(role) {
			case "", format.FirstParty, format.SecondParty:
				opts.Role = format.Role(role)
			default:
				return fmt.Errorf("unknown role %q (want %s or %s)", role, format.FirstParty, format.SecondParty)
			}

			paths := args[1:]
			if len(paths) == 0 {
				files, err := scan.ScanRoot(cfg.ExportRoot)
				if err != nil {
					return fmt.Errorf("scan %s: %w", cfg.ExportRoot, err)
				}
				for _, f := range files {
					paths = append(paths, f.Path)
				}
			}

			store := openPrefs(cfg)
			if store != nil {
				defer store.Close()
			}

			color := term.IsTerminal(int(os.Stdout.Fd()))
			found := 0
			for _, path := range paths {
				res, err := parse.ParseFile(path)
				if err != nil {
					slog.Warn("unreadable export", "path", path, "error", err)
					continue
				}
				units := format.Format(res.Records, format.Options{Swapped: storedSwap(store, path), MaxChars: cfg.Width})

				for _, r := range search.Search(units, opts) {
					snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
					sender := strings.ReplaceAll(r.Sender, "\t", " ")
					ts := r.Timestamp
					if color {
						snippet = colorizeSnippet(snippet)
						sender = colorizeSender(sender, r.Role)
						ts = sColorDim + ts + sColorReset
					} else {
						snippet = plainSnippet(snippet)
					}
					// path and index stay plain for scripting
					fmt.Printf("%s\t%d\t%s\t%s\t%s\n", path, r.Index, ts, sender, snippet)
					found++
				}
			}

			if found == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Filter by role (first-party/second-party)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results per export")

	return cmd
}
