package command

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Success(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), []string{"echo", "hello"}, "echo", nil)

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "hello\n", res.Output)
	require.NotNil(t, res.ExitCode)
	assert.Zero(t, *res.ExitCode)
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), []string{"false"}, "false", nil)

	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 1, *res.ExitCode)
}

func TestRun_CapturesStderr(t *testing.T) {
	r := NewRunner()

	res, err := r.RunShell(context.Background(), "echo oops >&2; exit 3", "stderr", nil)

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "oops\n", res.Stderr)
	require.NotNil(t, res.ExitCode)
	assert.Equal(t, 3, *res.ExitCode)
}

func TestRun_MissingBinaryIsAnError(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), []string{"definitely-not-a-real-binary-xyz"}, "missing", nil)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestRun_EmptyArgv(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(context.Background(), nil, "empty", nil)
	require.Error(t, err)

	_, err = r.RunShell(context.Background(), "   ", "blank", nil)
	require.Error(t, err)
}

func TestRun_WorkingDirectory(t *testing.T) {
	r := NewRunner()
	dir := t.TempDir()

	res, err := r.Run(context.Background(), []string{"pwd"}, "pwd", &Options{Dir: dir})

	require.NoError(t, err)
	assert.Contains(t, res.Output, dir)
}

func TestRunShell_PipefailPropagatesUpstreamFailure(t *testing.T) {
	r := NewRunner()

	res, err := r.RunShell(context.Background(), "set -o pipefail && false | cat", "pipefail", nil)

	require.NoError(t, err)
	assert.False(t, res.Success, "the pipeline must report the upstream exit status")
}

func TestRun_TimeoutReportsFailureNotError(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), []string{"sleep", "5"}, "sleep",
		&Options{Timeout: 50 * time.Millisecond})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.ExitCode, "a killed process reports no exit code")
}
