package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/prefs"
	"github.com/Zuo-Peng/chatview/internal/render"
)

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Print or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(render.ThemeLight), string(render.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			store, err := prefs.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				fmt.Println(storedTheme(store))
				return nil
			}

			theme, err := render.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := store.SetTheme(string(theme)); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			fmt.Printf("Theme set to %s\n", theme)
			return nil
		},
	}
}
