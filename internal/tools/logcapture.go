package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"xcodemcp/internal/logging"
)

// captureSession is one running `log stream` process writing to a file.
type captureSession struct {
	cmd  *exec.Cmd
	path string
}

// LogCaptureManager tracks running simulator log-capture sessions,
// keyed by session id. Sessions live for the process lifetime; stopping
// the server orphans nothing because the streams are child processes.
type LogCaptureManager struct {
	mu       sync.Mutex
	logger   logging.Logger
	sessions map[string]*captureSession
}

// NewLogCaptureManager creates an empty manager.
func NewLogCaptureManager(logger logging.Logger) *LogCaptureManager {
	return &LogCaptureManager{
		logger:   logger,
		sessions: make(map[string]*captureSession),
	}
}

// start spawns `xcrun simctl spawn <udid> log stream` into a temp file
// and returns the new session id.
func (m *LogCaptureManager) start(udid, bundleID string) (string, error) {
	id := uuid.NewString()
	path := filepath.Join(os.TempDir(), "xcodemcp-log-"+id+".log")

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating capture file: %w", err)
	}

	args := []string{"simctl", "spawn", udid, "log", "stream", "--style", "compact"}
	if bundleID != "" {
		args = append(args, "--predicate", fmt.Sprintf("subsystem == %q", bundleID))
	}

	cmd := exec.Command("xcrun", args...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("starting log stream: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = &captureSession{cmd: cmd, path: path}
	m.mu.Unlock()

	m.logger.Info("log capture started", "session", id, "udid", udid)
	return id, nil
}

// stop kills the stream process and returns the captured text.
func (m *LogCaptureManager) stop(id string) (string, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("no log capture session with id %s", id)
	}

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading capture file: %w", err)
	}
	_ = os.Remove(s.path)

	m.logger.Info("log capture stopped", "session", id)
	return string(data), nil
}

// StartSimLogCaptureTool handles the start_sim_log_capture MCP tool.
type StartSimLogCaptureTool struct {
	manager *LogCaptureManager
}

// NewStartSimLogCaptureTool creates a StartSimLogCaptureTool.
func NewStartSimLogCaptureTool(manager *LogCaptureManager) *StartSimLogCaptureTool {
	return &StartSimLogCaptureTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *StartSimLogCaptureTool) Definition() mcp.Tool {
	return mcp.NewTool("start_sim_log_capture",
		mcp.WithDescription(
			"Start capturing log output from a booted simulator. "+
				"Returns a session id for stop_sim_log_capture.",
		),
		mcp.WithString("simulatorId",
			mcp.Required(),
			mcp.Description("UDID of the booted simulator"),
		),
		mcp.WithString("bundleId",
			mcp.Description("Restrict capture to this app bundle identifier"),
		),
	)
}

// Handle processes the start_sim_log_capture tool call.
func (t *StartSimLogCaptureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	udid := req.GetString("simulatorId", "")
	if udid == "" {
		return mcp.NewToolResultError("'simulatorId' is required"), nil
	}

	id, err := t.manager.start(udid, req.GetString("bundleId", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Log capture started.\nSession id: %s\n\nStop it with stop_sim_log_capture to retrieve the output.", id)), nil
}

// StopSimLogCaptureTool handles the stop_sim_log_capture MCP tool.
type StopSimLogCaptureTool struct {
	manager *LogCaptureManager
}

// NewStopSimLogCaptureTool creates a StopSimLogCaptureTool.
func NewStopSimLogCaptureTool(manager *LogCaptureManager) *StopSimLogCaptureTool {
	return &StopSimLogCaptureTool{manager: manager}
}

// Definition returns the MCP tool definition for registration.
func (t *StopSimLogCaptureTool) Definition() mcp.Tool {
	return mcp.NewTool("stop_sim_log_capture",
		mcp.WithDescription("Stop a log capture session and return the captured output."),
		mcp.WithString("sessionId",
			mcp.Required(),
			mcp.Description("Session id returned by start_sim_log_capture"),
		),
	)
}

// Handle processes the stop_sim_log_capture tool call.
func (t *StopSimLogCaptureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("sessionId", "")
	if id == "" {
		return mcp.NewToolResultError("'sessionId' is required"), nil
	}

	output, err := t.manager.stop(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if output == "" {
		return mcp.NewToolResultText("Log capture stopped. No output was captured."), nil
	}
	return mcp.NewToolResultText("Log capture stopped. Captured output:\n\n" + output), nil
}
