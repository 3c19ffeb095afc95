package xcode

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"xcodemcp/internal/command"
)

// CacheState is the per-invocation decision for the incremental build
// cache. It is computed once per build, never persisted.
type CacheState int

const (
	// CacheDisabled: the feature flag is unset; always take the direct path.
	CacheDisabled CacheState = iota
	// CacheUnavailable: enabled but the acceleration tool is not
	// installed; fall back to the direct path with an advisory.
	CacheUnavailable
	// CacheOverridden: available but the caller forced a full build;
	// direct path with an advisory.
	CacheOverridden
	// CacheActive: replay or generate through the cache.
	CacheActive
)

// CacheProbes is the incremental-cache collaborator consumed by the
// orchestrator.
type CacheProbes interface {
	Enabled() bool
	ToolAvailable(ctx context.Context) bool
	DependencyFileExists(dir string) bool
	LogMarkerExists(dir, signature string) bool
	RunCachedBuild(ctx context.Context, dir, label string) (*command.Result, error)
	RunGeneratorBuild(ctx context.Context, dir string, argvTail []string, label string) (*command.Result, error)
}

// DecideCacheState maps the flag/availability/override inputs to one of
// the four cache states. Kept as a flat decision function so the
// orchestrator dispatches on the result instead of nesting conditionals.
func DecideCacheState(ctx context.Context, probes CacheProbes, preferFullBuild bool) CacheState {
	if probes == nil || !probes.Enabled() {
		return CacheDisabled
	}
	if !probes.ToolAvailable(ctx) {
		return CacheUnavailable
	}
	if preferFullBuild {
		return CacheOverridden
	}
	return CacheActive
}

// CommandSignature derives the cache key for one exact xcodebuild
// command line. A different command line hashes to a different marker
// file, which implicitly invalidates the cache — there is no explicit
// eviction.
func CommandSignature(argv []string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(argv, " ")))
}

const (
	accelTool      = "xcodemake"
	dependencyFile = "Makefile"
)

// MakeCache implements CacheProbes on top of xcodemake: the generator
// run wraps xcodebuild and emits a dependency Makefile plus a per-command
// log marker; replays run make against the generated file.
type MakeCache struct {
	runner  command.Runner
	enabled bool
	tool    AvailabilityCache
}

// NewMakeCache builds the production cache probes. enabled is the
// acceleration feature flag from configuration.
func NewMakeCache(runner command.Runner, enabled bool) *MakeCache {
	return &MakeCache{runner: runner, enabled: enabled}
}

func (m *MakeCache) Enabled() bool { return m.enabled }

func (m *MakeCache) ToolAvailable(ctx context.Context) bool {
	if v, ok := m.tool.Get(); ok {
		return v
	}
	res, err := m.runner.Run(ctx, []string{"which", accelTool}, "xcodemake probe", nil)
	available := err == nil && res != nil && res.Success
	m.tool.Set(available)
	return available
}

func (m *MakeCache) DependencyFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, dependencyFile))
	return err == nil
}

func (m *MakeCache) LogMarkerExists(dir, signature string) bool {
	_, err := os.Stat(filepath.Join(dir, markerName(signature)))
	return err == nil
}

func (m *MakeCache) RunCachedBuild(ctx context.Context, dir, label string) (*command.Result, error) {
	return m.runner.Run(ctx, []string{"make", "-f", dependencyFile}, label, &command.Options{Dir: dir})
}

func (m *MakeCache) RunGeneratorBuild(ctx context.Context, dir string, argvTail []string, label string) (*command.Result, error) {
	argv := append([]string{accelTool}, argvTail...)
	return m.runner.Run(ctx, argv, label, &command.Options{Dir: dir})
}

func markerName(signature string) string {
	return fmt.Sprintf("%s-%s.log", accelTool, signature)
}
