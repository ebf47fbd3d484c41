package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chatview/internal/config"
	"github.com/Zuo-Peng/chatview/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser viewer",
		Long: `Start a local web viewer. Upload an export (or paste its text) to see it
as a conversation; POST /api/v1/format returns the display units as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Addr
			}

			store := openPrefs(cfg)
			if store == nil {
				return web.NewServer(addr, nil, cfg.Width).Start()
			}
			defer store.Close()
			return web.NewServer(addr, store, cfg.Width).Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: addr from config)")
	return cmd
}
