// Package xcode implements the build command orchestration engine:
// destination resolution, toolchain invocation, output classification,
// and deterministic response formatting.
package xcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/command"
	"xcodemcp/internal/config"
	"xcodemcp/internal/logging"
)

// BuildRequest is the declarative build unit of work. Exactly one of
// ProjectPath / WorkspacePath must be set. An empty scheme is legal and
// simply yields a zero-length scheme argument.
type BuildRequest struct {
	ProjectPath     string
	WorkspacePath   string
	Scheme          string
	Configuration   string // defaults to "Debug"
	DerivedDataPath string
	ExtraArgs       []string
	// PreferFullBuild forces the direct path even when the incremental
	// cache is available.
	PreferFullBuild bool
}

// Deps bundles the orchestrator's collaborators. All modes are explicit
// values: the engine never reads ambient environment state.
type Deps struct {
	Runner command.Runner
	Logger logging.Logger
	Pretty *AvailabilityCache
	Cache  CacheProbes // nil disables the incremental path
	Mode   config.RenderMode
	// TestEnv suppresses pretty-printer usage so captured output is
	// deterministic and unfiltered.
	TestEnv bool
	// Timeout is threaded to the executor; zero disables it.
	Timeout time.Duration
}

// invalidArgsExit is xcodebuild's EX_USAGE. It signals a defect in our
// own argument construction, so it gets escalated logging; every other
// non-zero code is an ordinary build failure.
const invalidArgsExit = 64

// ExecuteBuild runs one build request end to end: destination
// resolution, optional incremental-cache dispatch, process execution,
// classification, and formatting.
//
// All failures — parameter errors, spawn errors, toolchain failures,
// internal errors — convert to a structured failure result; the caller
// never sees a Go error or a panic.
func ExecuteBuild(ctx context.Context, req BuildRequest, target Target, action string, deps Deps) (res *mcp.CallToolResult) {
	defer func() {
		if r := recover(); r != nil {
			deps.Logger.Escalate("internal error during build", "panic", fmt.Sprint(r))
			res = mcp.NewToolResultError(fmt.Sprintf("Internal error: %v", r))
		}
	}()

	if action == "" {
		action = "build"
	}
	if req.Configuration == "" {
		req.Configuration = "Debug"
	}
	if (req.ProjectPath == "") == (req.WorkspacePath == "") {
		return mcp.NewToolResultError("exactly one of projectPath or workspacePath must be provided")
	}

	destination, err := ResolveDestination(target)
	if err != nil {
		// Caller-side contract error: reported before any process spawn,
		// never escalated, never retried.
		deps.Logger.Warn("destination resolution failed", "error", err.Error())
		return mcp.NewToolResultError(err.Error())
	}

	argv := buildArgs(req, destination, action)
	label := fmt.Sprintf("xcodebuild %s (%s)", action, req.Scheme)

	var advisories []string
	opts := &command.Options{Timeout: deps.Timeout}

	// Decide the execution strategy. The incremental path applies only
	// to plain build actions; clean/test/etc. never use it.
	incremental := false
	var outcome *command.Result
	var spawnErr error

	if action == "build" && deps.Cache != nil {
		switch DecideCacheState(ctx, deps.Cache, req.PreferFullBuild) {
		case CacheUnavailable:
			advisories = append(advisories,
				"ℹ️ Incremental builds are enabled but "+accelTool+" is not installed — running a full build instead.")
		case CacheOverridden:
			advisories = append(advisories,
				"ℹ️ preferFullBuild is set — skipping the incremental build cache for this run.")
		case CacheActive:
			incremental = true
			outcome, spawnErr = runIncremental(ctx, deps.Cache, req, argv, label)
		}
	}

	if !incremental {
		outcome, advisories, spawnErr = runDirect(ctx, deps, argv, label, advisories, opts)
	}

	var stdout, stderr string
	succeeded := false
	switch {
	case spawnErr != nil:
		logSpawnError(deps.Logger, label, spawnErr)
		stderr = spawnErr.Error()
	default:
		succeeded = outcome.Success
		stdout = outcome.Output
		stderr = outcome.Stderr
		logOutcome(deps.Logger, label, outcome)
	}

	classified := Classify(stdout, stderr)

	// A failed incremental run with zero diagnostics points at the
	// accelerated path itself rather than the code under build.
	suggestFull := incremental && !succeeded &&
		len(classified.Warnings) == 0 && len(classified.Errors) == 0

	blocks := formatResponse(formatInput{
		Mode:               deps.Mode,
		Warnings:           classified.Warnings,
		Errors:             classified.Errors,
		Succeeded:          succeeded,
		Scheme:             req.Scheme,
		Action:             action,
		Target:             target,
		Advisories:         advisories,
		SuggestFullRebuild: suggestFull,
	})

	return resultFromBlocks(blocks, !succeeded)
}

// runDirect executes the toolchain directly, piping through the
// pretty-printer when available. In the test environment the
// pretty-printer is never probed or used.
func runDirect(ctx context.Context, deps Deps, argv []string, label string, advisories []string, opts *command.Options) (*command.Result, []string, error) {
	if deps.TestEnv {
		res, err := deps.Runner.Run(ctx, argv, label, opts)
		return res, advisories, err
	}

	if prettyPrinterAvailable(ctx, deps.Runner, deps.Pretty) {
		// pipefail keeps the toolchain's exit status from being masked
		// by the pretty-printer's.
		pipeline := "set -o pipefail && " + shellJoin(argv) + " | " + prettyPrinter
		res, err := deps.Runner.RunShell(ctx, pipeline, label, opts)
		return res, advisories, err
	}

	advisories = append(advisories,
		"⚠️ "+prettyPrinter+" not found — build output will be unfiltered. Install it with: brew install "+prettyPrinter)
	res, err := deps.Runner.Run(ctx, argv, label, opts)
	return res, advisories, err
}

// runIncremental replays the cached build when both artifacts exist for
// this exact command signature, and otherwise runs the generator once
// (which invokes the full toolchain under the hood and produces the
// artifacts on success).
func runIncremental(ctx context.Context, cache CacheProbes, req BuildRequest, argv []string, label string) (*command.Result, error) {
	dir := projectDir(req)
	signature := CommandSignature(argv)
	if cache.DependencyFileExists(dir) && cache.LogMarkerExists(dir, signature) {
		return cache.RunCachedBuild(ctx, dir, label+" [cached]")
	}
	return cache.RunGeneratorBuild(ctx, dir, argv[1:], label+" [generating cache]")
}

// buildArgs assembles the xcodebuild invocation.
func buildArgs(req BuildRequest, destination, action string) []string {
	argv := []string{"xcodebuild"}
	if req.ProjectPath != "" {
		argv = append(argv, "-project", req.ProjectPath)
	} else {
		argv = append(argv, "-workspace", req.WorkspacePath)
	}
	argv = append(argv,
		"-scheme", req.Scheme,
		"-configuration", req.Configuration,
		"-skipMacroValidation",
		"-destination", destination,
	)
	if req.DerivedDataPath != "" {
		argv = append(argv, "-derivedDataPath", req.DerivedDataPath)
	}
	argv = append(argv, req.ExtraArgs...)
	return append(argv, action)
}

func projectDir(req BuildRequest) string {
	if req.ProjectPath != "" {
		return filepath.Dir(req.ProjectPath)
	}
	return filepath.Dir(req.WorkspacePath)
}

// logSpawnError distinguishes benign environment problems (binary not
// found, permission denied) from unexpected internal errors; only the
// latter escalate.
func logSpawnError(log logging.Logger, label string, err error) {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrPermission) ||
		errors.Is(err, os.ErrNotExist) {
		log.Warn("process failed to start", "label", label, "error", err.Error())
		return
	}
	log.Escalate("unexpected execution error", "label", label, "error", err.Error())
}

// logOutcome logs a completed invocation. Exit code 64 means xcodebuild
// rejected our arguments — our defect, escalated; everything else is a
// problem in the code under build.
func logOutcome(log logging.Logger, label string, res *command.Result) {
	if res.Success {
		log.Info("command succeeded", "label", label)
		return
	}
	if res.ExitCode != nil && *res.ExitCode == invalidArgsExit {
		log.Escalate("xcodebuild rejected arguments", "label", label, "exit_code", *res.ExitCode)
		return
	}
	code := "unknown"
	if res.ExitCode != nil {
		code = fmt.Sprint(*res.ExitCode)
	}
	log.Warn("command failed", "label", label, "exit_code", code)
}

// shellJoin renders argv as a bash command string, single-quoting any
// argument that needs it.
func shellJoin(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = shellQuote(arg)
	}
	return strings.Join(parts, " ")
}

func shellQuote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'`$&|;()<>*?[]{}\\~#") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func resultFromBlocks(blocks []string, isError bool) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, mcp.NewTextContent(b))
	}
	return &mcp.CallToolResult{Content: content, IsError: isError}
}
