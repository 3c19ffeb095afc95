// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools that depend on abstractions. No
// business logic lives here — only wiring.
package server

import (
	"xcodemcp/internal/command"
	"xcodemcp/internal/config"
	"xcodemcp/internal/logging"
	"xcodemcp/internal/session"
	"xcodemcp/internal/tools"
	"xcodemcp/internal/xcode"

	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where dependencies are resolved; cfg is the
// only source of modes and flags — nothing below reads the environment.
//
// The returned cleanup function closes the session store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if store init failed.
func New(cfg config.Config, logger logging.Logger) (*server.MCPServer, func(), error) {
	s := server.NewMCPServer(
		"xcodemcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	runner := command.NewRunner()

	// The session store is an independent subsystem: if it fails to
	// initialize, build tools keep working without default backfill and
	// the defaults tools are simply not registered.
	cleanup := noop
	store, storeErr := session.New(session.DefaultConfig())
	if storeErr != nil {
		logger.Warn("session defaults disabled", "error", storeErr.Error())
		store = nil
	} else {
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Warn("session store close", "error", err.Error())
			}
		}
	}

	deps := tools.BuildDeps{
		Runner: runner,
		Logger: logger,
		Pretty: xcode.NewAvailabilityCache(),
		Cache:  xcode.NewMakeCache(runner, cfg.IncrementalBuilds),
		Cfg:    cfg,
		Store:  store,
	}

	// --- Build family ---

	buildProject := tools.NewBuildProjectTool(deps)
	s.AddTool(buildProject.Definition(), buildProject.Handle)

	buildWorkspace := tools.NewBuildWorkspaceTool(deps)
	s.AddTool(buildWorkspace.Definition(), buildWorkspace.Handle)

	clean := tools.NewCleanTool(deps)
	s.AddTool(clean.Definition(), clean.Handle)

	test := tools.NewTestTool(deps)
	s.AddTool(test.Definition(), test.Handle)

	runMacOS := tools.NewRunMacOSTool(deps)
	s.AddTool(runMacOS.Definition(), runMacOS.Handle)

	listSchemes := tools.NewListSchemesTool(deps)
	s.AddTool(listSchemes.Definition(), listSchemes.Handle)

	// --- Simulator log capture ---

	captures := tools.NewLogCaptureManager(logger)

	startCapture := tools.NewStartSimLogCaptureTool(captures)
	s.AddTool(startCapture.Definition(), startCapture.Handle)

	stopCapture := tools.NewStopSimLogCaptureTool(captures)
	s.AddTool(stopCapture.Definition(), stopCapture.Handle)

	// --- Session defaults (only when the store is usable) ---

	if store != nil {
		setDefaults := tools.NewSetSessionDefaultsTool(store)
		s.AddTool(setDefaults.Definition(), setDefaults.Handle)

		showDefaults := tools.NewShowSessionDefaultsTool(store)
		s.AddTool(showDefaults.Definition(), showDefaults.Handle)

		clearDefaults := tools.NewClearSessionDefaultsTool(store)
		s.AddTool(clearDefaults.Definition(), clearDefaults.Handle)
	}

	return s, cleanup, nil
}

// noop is the default cleanup when the session store is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// client how to use the server effectively.
func serverInstructions() string {
	return `You have access to xcodemcp, an MCP server for Apple platform
developer workflows: building, testing, running, and inspecting Xcode
projects from the command line.

## Typical flow

1. Discover schemes with list_schemes.
2. Optionally store defaults with set_session_defaults so later calls
   can omit scheme/configuration/platform.
3. Build with build_project or build_workspace. For simulator platforms
   provide exactly one of simulatorId or simulatorName.
4. On failure, read the reported error lines — lines tagged [stderr]
   came from the toolchain's error stream.
5. For macOS apps, build_run_macos builds and launches in one call.
6. While an app runs in the simulator, capture its logs with
   start_sim_log_capture / stop_sim_log_capture.

## Notes

- clean_project and test_project accept the same parameters as the
  build tools.
- preferFullBuild forces a full rebuild when the incremental build
  cache produces stale results.
- Builds target macOS by default; pass platform for anything else.`
}
