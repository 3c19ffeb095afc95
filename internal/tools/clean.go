package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/xcode"
)

// CleanTool handles the clean_project MCP tool. Clean never uses the
// incremental build cache.
type CleanTool struct {
	deps BuildDeps
}

// NewCleanTool creates a CleanTool.
func NewCleanTool(deps BuildDeps) *CleanTool {
	return &CleanTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *CleanTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Clean build artifacts for an Xcode project or workspace. " +
				"Provide exactly one of projectPath or workspacePath.",
		),
		mcp.WithString("projectPath",
			mcp.Description("Path to the .xcodeproj"),
		),
		mcp.WithString("workspacePath",
			mcp.Description("Path to the .xcworkspace"),
		),
	}
	opts = append(opts, buildParams()...)
	return mcp.NewTool("clean_project", opts...)
}

// Handle processes the clean_project tool call.
func (t *CleanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectPath := req.GetString("projectPath", "")
	workspacePath := req.GetString("workspacePath", "")
	if (projectPath == "") == (workspacePath == "") {
		return mcp.NewToolResultError("exactly one of 'projectPath' or 'workspacePath' is required"), nil
	}
	build, target, err := parseBuildCall(req, projectPath, workspacePath, t.deps.Store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return xcode.ExecuteBuild(ctx, build, target, "clean", t.deps.engineDeps()), nil
}
