package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/command"
)

// ListSchemesTool handles the list_schemes MCP tool.
type ListSchemesTool struct {
	deps BuildDeps
}

// NewListSchemesTool creates a ListSchemesTool.
func NewListSchemesTool(deps BuildDeps) *ListSchemesTool {
	return &ListSchemesTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *ListSchemesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_schemes",
		mcp.WithDescription(
			"List the build schemes of an Xcode project or workspace. "+
				"Provide exactly one of projectPath or workspacePath.",
		),
		mcp.WithString("projectPath",
			mcp.Description("Path to the .xcodeproj"),
		),
		mcp.WithString("workspacePath",
			mcp.Description("Path to the .xcworkspace"),
		),
	)
}

// Handle processes the list_schemes tool call.
func (t *ListSchemesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectPath := req.GetString("projectPath", "")
	workspacePath := req.GetString("workspacePath", "")
	if (projectPath == "") == (workspacePath == "") {
		return mcp.NewToolResultError("exactly one of 'projectPath' or 'workspacePath' is required"), nil
	}

	argv := []string{"xcodebuild", "-list"}
	if projectPath != "" {
		argv = append(argv, "-project", projectPath)
	} else {
		argv = append(argv, "-workspace", workspacePath)
	}

	opts := &command.Options{Timeout: t.deps.Cfg.ExecTimeout}
	res, err := t.deps.Runner.Run(ctx, argv, "list schemes", opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing schemes: %v", err)), nil
	}
	if !res.Success {
		return mcp.NewToolResultError("xcodebuild -list failed:\n" + res.Stderr), nil
	}

	schemes := parseSchemes(res.Output)
	if len(schemes) == 0 {
		return mcp.NewToolResultText("No schemes found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Schemes (%d):\n", len(schemes))
	for _, s := range schemes {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// parseSchemes extracts the indented scheme names following the
// "Schemes:" header of xcodebuild -list output.
func parseSchemes(output string) []string {
	var schemes []string
	inSection := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "Schemes:":
			inSection = true
		case inSection && trimmed == "":
			return schemes
		case inSection:
			schemes = append(schemes, trimmed)
		}
	}
	return schemes
}
