package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/reel/internal/config"
	"github.com/jackzampolin/reel/internal/home"
	"github.com/jackzampolin/reel/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reel server",
	Long: `Start the reel HTTP server.

The server hosts the generation endpoints (script, voice, thumbnail,
stock footage, metadata) and runs video assembly jobs in the background.
Stale job status files from previous runs are cleared on startup.

Examples:
  reel serve                     # Start on default port 8001
  reel serve --port 3000         # Start on custom port
  reel serve --host 0.0.0.0      # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cm.WatchConfig()

		host := serveHost
		port := servePort
		if host == "" {
			host = cm.Get().Server.Host
		}
		if port == "" {
			port = cm.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: cm,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// loadConfig builds a config manager from the --config flag.
func loadConfig() (*config.Manager, error) {
	return config.NewManager(cfgFile)
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: from config)")

	rootCmd.AddCommand(serveCmd)
}
