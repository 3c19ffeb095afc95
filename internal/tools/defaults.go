package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/session"
)

// SetSessionDefaultsTool handles the set_session_defaults MCP tool.
// Stored defaults backfill omitted parameters on later build/test/clean
// calls for the same project or workspace path.
type SetSessionDefaultsTool struct {
	store *session.Store
}

// NewSetSessionDefaultsTool creates a SetSessionDefaultsTool.
func NewSetSessionDefaultsTool(store *session.Store) *SetSessionDefaultsTool {
	return &SetSessionDefaultsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *SetSessionDefaultsTool) Definition() mcp.Tool {
	return mcp.NewTool("set_session_defaults",
		mcp.WithDescription(
			"Remember default build parameters for a project or workspace. "+
				"Later build/test/clean calls fill omitted parameters from these defaults.",
		),
		mcp.WithString("workspace",
			mcp.Required(),
			mcp.Description("The .xcodeproj or .xcworkspace path the defaults apply to"),
		),
		mcp.WithString("scheme", mcp.Description("Default scheme")),
		mcp.WithString("configuration", mcp.Description("Default configuration")),
		mcp.WithString("platform",
			mcp.Description("Default platform"),
			mcp.Enum(platformEnum...),
		),
		mcp.WithString("simulatorName", mcp.Description("Default simulator name")),
		mcp.WithString("simulatorId", mcp.Description("Default simulator UDID")),
		mcp.WithString("deviceId", mcp.Description("Default physical device UDID")),
	)
}

// Handle processes the set_session_defaults tool call.
func (t *SetSessionDefaultsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspace := req.GetString("workspace", "")
	if workspace == "" {
		return mcp.NewToolResultError("'workspace' is required"), nil
	}

	d := session.Defaults{
		Workspace:     workspace,
		Scheme:        req.GetString("scheme", ""),
		Configuration: req.GetString("configuration", ""),
		Platform:      req.GetString("platform", ""),
		SimulatorName: req.GetString("simulatorName", ""),
		SimulatorID:   req.GetString("simulatorId", ""),
		DeviceID:      req.GetString("deviceId", ""),
	}
	if err := t.store.Save(d); err != nil {
		return nil, fmt.Errorf("saving defaults: %w", err)
	}
	return mcp.NewToolResultText("Session defaults saved for " + workspace + "."), nil
}

// ShowSessionDefaultsTool handles the show_session_defaults MCP tool.
type ShowSessionDefaultsTool struct {
	store *session.Store
}

// NewShowSessionDefaultsTool creates a ShowSessionDefaultsTool.
func NewShowSessionDefaultsTool(store *session.Store) *ShowSessionDefaultsTool {
	return &ShowSessionDefaultsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ShowSessionDefaultsTool) Definition() mcp.Tool {
	return mcp.NewTool("show_session_defaults",
		mcp.WithDescription("Show the stored session defaults for a project or workspace."),
		mcp.WithString("workspace",
			mcp.Required(),
			mcp.Description("The .xcodeproj or .xcworkspace path"),
		),
	)
}

// Handle processes the show_session_defaults tool call.
func (t *ShowSessionDefaultsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspace := req.GetString("workspace", "")
	if workspace == "" {
		return mcp.NewToolResultError("'workspace' is required"), nil
	}

	d, err := t.store.Get(workspace)
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultText("No session defaults stored for " + workspace + "."), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session defaults for %s:\n", d.Workspace)
	writeField(&b, "scheme", d.Scheme)
	writeField(&b, "configuration", d.Configuration)
	writeField(&b, "platform", d.Platform)
	writeField(&b, "simulatorName", d.SimulatorName)
	writeField(&b, "simulatorId", d.SimulatorID)
	writeField(&b, "deviceId", d.DeviceID)
	fmt.Fprintf(&b, "\nLast updated: %s", d.UpdatedAt)
	return mcp.NewToolResultText(b.String()), nil
}

func writeField(b *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(b, "- %s: %s\n", name, value)
	}
}

// ClearSessionDefaultsTool handles the clear_session_defaults MCP tool.
type ClearSessionDefaultsTool struct {
	store *session.Store
}

// NewClearSessionDefaultsTool creates a ClearSessionDefaultsTool.
func NewClearSessionDefaultsTool(store *session.Store) *ClearSessionDefaultsTool {
	return &ClearSessionDefaultsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ClearSessionDefaultsTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_session_defaults",
		mcp.WithDescription("Remove the stored session defaults for a project or workspace."),
		mcp.WithString("workspace",
			mcp.Required(),
			mcp.Description("The .xcodeproj or .xcworkspace path"),
		),
	)
}

// Handle processes the clear_session_defaults tool call.
func (t *ClearSessionDefaultsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspace := req.GetString("workspace", "")
	if workspace == "" {
		return mcp.NewToolResultError("'workspace' is required"), nil
	}
	if err := t.store.Clear(workspace); err != nil {
		return nil, fmt.Errorf("clearing defaults: %w", err)
	}
	return mcp.NewToolResultText("Session defaults cleared for " + workspace + "."), nil
}
