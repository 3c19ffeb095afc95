// Package tools implements the MCP tool handlers for Apple developer
// workflows: build, clean, test, run, scheme listing, simulator log
// capture, and session defaults.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes Definition() for registration plus Handle() for dispatch.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/command"
	"xcodemcp/internal/config"
	"xcodemcp/internal/logging"
	"xcodemcp/internal/session"
	"xcodemcp/internal/xcode"
)

// BuildDeps bundles everything the build-family tools need. Store may
// be nil — session-default backfill is then skipped.
type BuildDeps struct {
	Runner command.Runner
	Logger logging.Logger
	Pretty *xcode.AvailabilityCache
	Cache  xcode.CacheProbes
	Cfg    config.Config
	Store  *session.Store
}

func (d BuildDeps) engineDeps() xcode.Deps {
	return xcode.Deps{
		Runner:  d.Runner,
		Logger:  d.Logger,
		Pretty:  d.Pretty,
		Cache:   d.Cache,
		Mode:    d.Cfg.RenderMode,
		TestEnv: d.Cfg.TestEnv,
		Timeout: d.Cfg.ExecTimeout,
	}
}

// parsePlatform maps a tool argument to a Platform. Empty means macOS.
func parsePlatform(s string) (xcode.Platform, error) {
	switch s {
	case "", "macOS":
		return xcode.PlatformMacOS, nil
	case "iOS":
		return xcode.PlatformIOS, nil
	case "iOS Simulator":
		return xcode.PlatformIOSSimulator, nil
	case "watchOS":
		return xcode.PlatformWatchOS, nil
	case "watchOS Simulator":
		return xcode.PlatformWatchOSSimulator, nil
	case "tvOS":
		return xcode.PlatformTVOS, nil
	case "tvOS Simulator":
		return xcode.PlatformTVOSSimulator, nil
	case "visionOS":
		return xcode.PlatformVisionOS, nil
	case "visionOS Simulator":
		return xcode.PlatformVisionOSSim, nil
	default:
		return "", fmt.Errorf("unsupported platform: %q", s)
	}
}

var platformEnum = []string{
	"macOS", "iOS", "iOS Simulator", "watchOS", "watchOS Simulator",
	"tvOS", "tvOS Simulator", "visionOS", "visionOS Simulator",
}

// buildParams declares the shared build/clean/test tool parameters.
// Appended after the tool-specific target-path parameter.
func buildParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("scheme",
			mcp.Description("Build scheme. Falls back to the stored session default."),
		),
		mcp.WithString("configuration",
			mcp.Description("Build configuration. Defaults to Debug."),
		),
		mcp.WithString("platform",
			mcp.Description("Target platform. Defaults to macOS."),
			mcp.Enum(platformEnum...),
		),
		mcp.WithString("simulatorId",
			mcp.Description("Simulator UDID. For simulator platforms, exactly one of simulatorId/simulatorName is required."),
		),
		mcp.WithString("simulatorName",
			mcp.Description("Simulator name, e.g. 'iPhone 16'."),
		),
		mcp.WithBoolean("useLatestOS",
			mcp.Description("Append OS=latest when targeting a simulator by name. Defaults to true; ignored with simulatorId."),
			mcp.DefaultBool(true),
		),
		mcp.WithString("arch",
			mcp.Description("Architecture override (macOS only), e.g. arm64."),
		),
		mcp.WithString("deviceId",
			mcp.Description("Physical device UDID. Omit for a generic destination."),
		),
		mcp.WithString("derivedDataPath",
			mcp.Description("Override the DerivedData output directory."),
		),
		mcp.WithArray("extraArgs",
			mcp.Description("Extra arguments appended verbatim to the xcodebuild invocation."),
		),
		mcp.WithBoolean("preferFullBuild",
			mcp.Description("Force a full build even when the incremental build cache is available."),
		),
	}
}

// parseBuildCall extracts the build request and target from a tool call,
// backfilling unset fields from stored session defaults for the
// project/workspace path.
func parseBuildCall(req mcp.CallToolRequest, projectPath, workspacePath string, store *session.Store) (xcode.BuildRequest, xcode.Target, error) {
	build := xcode.BuildRequest{
		ProjectPath:     projectPath,
		WorkspacePath:   workspacePath,
		Scheme:          req.GetString("scheme", ""),
		Configuration:   req.GetString("configuration", ""),
		DerivedDataPath: req.GetString("derivedDataPath", ""),
		ExtraArgs:       req.GetStringSlice("extraArgs", nil),
		PreferFullBuild: req.GetBool("preferFullBuild", false),
	}

	platformArg := req.GetString("platform", "")
	simulatorID := req.GetString("simulatorId", "")
	simulatorName := req.GetString("simulatorName", "")
	deviceID := req.GetString("deviceId", "")

	if store != nil {
		key := projectPath
		if key == "" {
			key = workspacePath
		}
		if defaults, err := store.Get(key); err == nil {
			if build.Scheme == "" {
				build.Scheme = defaults.Scheme
			}
			if build.Configuration == "" {
				build.Configuration = defaults.Configuration
			}
			if platformArg == "" {
				platformArg = defaults.Platform
			}
			if simulatorID == "" && simulatorName == "" {
				simulatorID = defaults.SimulatorID
				simulatorName = defaults.SimulatorName
			}
			if deviceID == "" {
				deviceID = defaults.DeviceID
			}
		}
	}

	platform, err := parsePlatform(platformArg)
	if err != nil {
		return xcode.BuildRequest{}, xcode.Target{}, err
	}

	useLatest := req.GetBool("useLatestOS", true)
	target := xcode.Target{
		Platform:      platform,
		SimulatorID:   simulatorID,
		SimulatorName: simulatorName,
		DeviceID:      deviceID,
		UseLatestOS:   &useLatest,
		Arch:          req.GetString("arch", ""),
	}
	return build, target, nil
}
