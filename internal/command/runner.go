// Package command abstracts external process execution behind a small
// interface so build logic can be exercised with deterministic stubs.
//
// Two invocation shapes are supported: a literal argv spawn and a shell
// pipeline (a single command string run through bash, needed to pipe
// xcodebuild output into xcbeautify with pipefail semantics).
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Result captures the outcome of one process invocation.
// ExitCode is nil when the process never reported one (it was never
// started, or it was killed by a signal).
type Result struct {
	Success  bool
	Output   string
	Stderr   string
	ExitCode *int
}

// Options tunes a single invocation.
type Options struct {
	// Timeout bounds the process runtime. Zero means no timeout.
	// A timeout surfaces as an ordinary failed Result, not an error.
	Timeout time.Duration

	// Dir is the working directory for the process. Empty means the
	// caller's working directory.
	Dir string
}

// Runner executes external processes and captures their output.
type Runner interface {
	// Run spawns argv directly. The returned error is non-nil only when
	// the process could not be started at all (binary missing, permission
	// denied, ...); a started process that exits non-zero returns a
	// Result with Success=false and a nil error.
	Run(ctx context.Context, argv []string, label string, opts *Options) (*Result, error)

	// RunShell runs a command string through bash, so pipelines and
	// `set -o pipefail` work. Same error contract as Run.
	RunShell(ctx context.Context, cmd string, label string, opts *Options) (*Result, error)
}

// ShellRunner is the production Runner backed by os/exec.
type ShellRunner struct{}

// NewRunner returns the default process runner.
func NewRunner() *ShellRunner {
	return &ShellRunner{}
}

func (r *ShellRunner) Run(ctx context.Context, argv []string, label string, opts *Options) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty argv")
	}
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if opts != nil {
		cmd.Dir = opts.Dir
	}
	return run(cmd)
}

func (r *ShellRunner) RunShell(ctx context.Context, command string, label string, opts *Options) (*Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("empty command")
	}
	ctx, cancel := withTimeout(ctx, opts)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/bash", "-c", command)
	if opts != nil {
		cmd.Dir = opts.Dir
	}
	return run(cmd)
}

func withTimeout(ctx context.Context, opts *Options) (context.Context, context.CancelFunc) {
	if opts != nil && opts.Timeout > 0 {
		return context.WithTimeout(ctx, opts.Timeout)
	}
	return context.WithCancel(ctx)
}

func run(cmd *exec.Cmd) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Output: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		res.Success = true
		code := 0
		res.ExitCode = &code
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The process ran and failed. Signaled processes report -1,
		// which we map to "no exit code".
		if code := exitErr.ExitCode(); code >= 0 {
			res.ExitCode = &code
		}
		return res, nil
	}

	// The process never started.
	return nil, err
}
