package tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/command"
	"xcodemcp/internal/xcode"
)

// RunMacOSTool handles the build_run_macos MCP tool: build the scheme
// for macOS, locate the built app bundle via -showBuildSettings, and
// launch it.
type RunMacOSTool struct {
	deps BuildDeps
}

// NewRunMacOSTool creates a RunMacOSTool.
func NewRunMacOSTool(deps BuildDeps) *RunMacOSTool {
	return &RunMacOSTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *RunMacOSTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Build a scheme for macOS and launch the resulting app. " +
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
	return mcp.NewTool("build_run_macos", opts...)
}

// Handle processes the build_run_macos tool call.
func (t *RunMacOSTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectPath := req.GetString("projectPath", "")
	workspacePath := req.GetString("workspacePath", "")
	if (projectPath == "") == (workspacePath == "") {
		return mcp.NewToolResultError("exactly one of 'projectPath' or 'workspacePath' is required"), nil
	}
	build, target, err := parseBuildCall(req, projectPath, workspacePath, t.deps.Store)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target.Platform = xcode.PlatformMacOS

	result := xcode.ExecuteBuild(ctx, build, target, "build", t.deps.engineDeps())
	if result.IsError {
		return result, nil
	}

	appPath, err := t.appPath(ctx, build)
	if err != nil {
		result.Content = append(result.Content, mcp.NewTextContent(
			fmt.Sprintf("⚠️ Build succeeded but the app path could not be resolved: %v", err)))
		return result, nil
	}

	opts := &command.Options{Timeout: t.deps.Cfg.ExecTimeout}
	launch, err := t.deps.Runner.Run(ctx, []string{"open", appPath}, "launch "+build.Scheme, opts)
	if err != nil || !launch.Success {
		result.Content = append(result.Content, mcp.NewTextContent(
			fmt.Sprintf("⚠️ Build succeeded but launching %s failed.", appPath)))
		return result, nil
	}

	result.Content = append(result.Content, mcp.NewTextContent(
		fmt.Sprintf("🚀 Launched %s.", appPath)))
	return result, nil
}

// appPath resolves BUILT_PRODUCTS_DIR/FULL_PRODUCT_NAME from
// xcodebuild -showBuildSettings.
func (t *RunMacOSTool) appPath(ctx context.Context, build xcode.BuildRequest) (string, error) {
	argv := []string{"xcodebuild"}
	if build.ProjectPath != "" {
		argv = append(argv, "-project", build.ProjectPath)
	} else {
		argv = append(argv, "-workspace", build.WorkspacePath)
	}
	argv = append(argv,
		"-scheme", build.Scheme,
		"-configuration", build.Configuration,
		"-showBuildSettings",
	)

	opts := &command.Options{Timeout: t.deps.Cfg.ExecTimeout}
	res, err := t.deps.Runner.Run(ctx, argv, "show build settings", opts)
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", fmt.Errorf("xcodebuild -showBuildSettings failed")
	}

	settings := parseBuildSettings(res.Output)
	dir := settings["BUILT_PRODUCTS_DIR"]
	name := settings["FULL_PRODUCT_NAME"]
	if dir == "" || name == "" {
		return "", fmt.Errorf("BUILT_PRODUCTS_DIR or FULL_PRODUCT_NAME missing from build settings")
	}
	return filepath.Join(dir, name), nil
}

// parseBuildSettings extracts "KEY = value" pairs from
// -showBuildSettings output.
func parseBuildSettings(output string) map[string]string {
	settings := map[string]string{}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		settings[key] = strings.TrimSpace(value)
	}
	return settings
}
