package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"xcodemcp/internal/server"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("xcodemcp v%s\n", server.Version)
		},
	}
}
