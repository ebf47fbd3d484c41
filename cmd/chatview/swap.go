package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/prefs"
)

func swapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <file>",
		Short: "Toggle which side an export's senders appear on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("file not found: %s", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := prefs.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			swapped, err := store.ToggleSwapped(args[0])
			if err != nil {
				return fmt.Errorf("toggle swap: %w", err)
			}
			if swapped {
				fmt.Println("Sides swapped: the first sender now appears on the left.")
			} else {
				fmt.Println("Sides restored: the first sender appears on the right.")
			}
			return nil
		},
	}
}
