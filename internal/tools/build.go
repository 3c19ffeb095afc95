package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/xcode"
)

// BuildProjectTool handles the build_project MCP tool.
type BuildProjectTool struct {
	deps BuildDeps
}

// NewBuildProjectTool creates a BuildProjectTool.
func NewBuildProjectTool(deps BuildDeps) *BuildProjectTool {
	return &BuildProjectTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildProjectTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Build an Xcode project (.xcodeproj) for a platform destination. " +
				"Classifies warnings and errors from the build output and reports next steps.",
		),
		mcp.WithString("projectPath",
			mcp.Required(),
			mcp.Description("Path to the .xcodeproj"),
		),
	}
	opts = append(opts, buildParams()...)
	return mcp.NewTool("build_project", opts...)
}

// Handle processes the build_project tool call.
func (t *BuildProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectPath := req.GetString("projectPath", "")
	if projectPath == "" {
		return mcp.NewToolResultError("'projectPath' is required"), nil
	}
	build, target, err := parseBuildCall(req, projectPath, "", t.deps.Store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return xcode.ExecuteBuild(ctx, build, target, "build", t.deps.engineDeps()), nil
}

// BuildWorkspaceTool handles the build_workspace MCP tool.
type BuildWorkspaceTool struct {
	deps BuildDeps
}

// NewBuildWorkspaceTool creates a BuildWorkspaceTool.
func NewBuildWorkspaceTool(deps BuildDeps) *BuildWorkspaceTool {
	return &BuildWorkspaceTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildWorkspaceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Build an Xcode workspace (.xcworkspace) for a platform destination. " +
				"Classifies warnings and errors from the build output and reports next steps.",
		),
		mcp.WithString("workspacePath",
			mcp.Required(),
			mcp.Description("Path to the .xcworkspace"),
		),
	}
	opts = append(opts, buildParams()...)
	return mcp.NewTool("build_workspace", opts...)
}

// Handle processes the build_workspace tool call.
func (t *BuildWorkspaceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspacePath := req.GetString("workspacePath", "")
	if workspacePath == "" {
		return mcp.NewToolResultError("'workspacePath' is required"), nil
	}
	build, target, err := parseBuildCall(req, "", workspacePath, t.deps.Store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return xcode.ExecuteBuild(ctx, build, target, "build", t.deps.engineDeps()), nil
}
