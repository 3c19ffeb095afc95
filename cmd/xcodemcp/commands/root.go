// Package commands implements the CLI commands for the xcodemcp server.
package commands

import (
	"github.com/spf13/cobra"
)

// configPath is set by the --config persistent flag.
var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xcodemcp",
		Short:         "Apple developer-workflow MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the configuration file (default ~/.config/xcodemcp/config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
