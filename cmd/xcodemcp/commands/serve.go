package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"xcodemcp/internal/config"
	"xcodemcp/internal/logging"
	"xcodemcp/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Best effort: a local .env can carry XCODEMCP_* overrides.
			_ = godotenv.Load()

			path := configPath
			if path == "" {
				path = config.Path()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger := logging.New()
			s, cleanup, err := server.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			logger.Info("server starting",
				"version", server.Version,
				"render_mode", string(cfg.RenderMode),
				"incremental_builds", cfg.IncrementalBuilds,
			)
			return mcpserver.ServeStdio(s)
		},
	}
}
