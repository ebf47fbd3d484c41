package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/parse"
	"github.com/Zuo-Peng/chatview/internal/scan"
)

func listCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chat exports under the export root",
		Long: `List discovered exports, newest first. Output is TSV:
  path, title, messages, modified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if root == "" {
				root = cfg.ExportRoot
			}

			files, err := scan.ScanRoot(root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			if len(files) == 0 {
				fmt.Fprintf(os.Stderr, "No chat exports found under %s\n", root)
				return nil
			}

			for _, f := range files {
				messages := "-"
				if res, err := parse.ParseFile(f.Path); err != nil {
					slog.Warn("unreadable export", "path", f.Path, "error", err)
				} else {
					messages = fmt.Sprint(res.Meta.Messages)
				}
				fmt.Printf("%s\t%s\t%s\t%s\n",
					f.Path,
					strings.ReplaceAll(f.Title, "\t", " "),
					messages,
					time.Unix(f.Mtime, 0).Format("2006-01-02 15:04"),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Directory to scan (default: export_root from config)")
	return cmd
}
