// xcodemcp: Apple developer-workflow MCP server.
//
// Exposes build, test, run, scheme discovery, and simulator log-capture
// operations for Xcode projects as MCP tools over stdio.
//
// Usage:
//
//	xcodemcp serve     # Start the MCP server (stdio transport)
//	xcodemcp version   # Print the version
package main

import (
	"fmt"
	"os"

	"xcodemcp/cmd/xcodemcp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
