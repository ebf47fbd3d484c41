package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/format"
	"github.com/Zuo-Peng/chatview/internal/open"
	"github.com/Zuo-Peng/chatview/internal/parse"
)

func openCmd() *cobra.Command {
	var message int

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Open an export in $EDITOR",
		Long: `Open a .txt export in $EDITOR (less when unset). With --message, jump to
the line of that display unit, as numbered by 'chatview find'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := 1
			if cmd.Flags().Changed("message") {
				res, err := parse.ParseFile(args[0])
				if err != nil {
					return err
				}
				units := format.Format(res.Records, format.Options{})
				if message < 0 || message >= len(units) {
					return fmt.Errorf("message %d out of range (export has %d)", message, len(units))
				}
				line = units[message].Line
			}
			return open.OpenExport(args[0], line)
		},
	}

	cmd.Flags().IntVar(&message, "message", 0, "Display unit index to jump to")
	return cmd
}
