package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/xcode"
)

// TestTool handles the test_project MCP tool. Tests go through the same
// classification and formatting pipeline as builds and never use the
// incremental build cache.
type TestTool struct {
	deps BuildDeps
}

// NewTestTool creates a TestTool.
func NewTestTool(deps BuildDeps) *TestTool {
	return &TestTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *TestTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Run tests for an Xcode project or workspace on a platform destination. " +
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
	return mcp.NewTool("test_project", opts...)
}

// Handle processes the test_project tool call.
func (t *TestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectPath := req.GetString("projectPath", "")
	workspacePath := req.GetString("workspacePath", "")
	if (projectPath == "") == (workspacePath == "") {
		return mcp.NewToolResultError("exactly one of 'projectPath' or 'workspacePath' is required"), nil
	}
	build, target, err := parseBuildCall(req, projectPath, workspacePath, t.deps.Store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return xcode.ExecuteBuild(ctx, build, target, "test", t.deps.engineDeps()), nil
}
