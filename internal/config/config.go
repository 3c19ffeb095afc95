// Package config loads server configuration.
//
// Precedence, low to high: built-in defaults, the optional YAML config
// file, XCODEMCP_* environment variables. The resulting Config is passed
// explicitly into the composition root — nothing below it reads ambient
// environment state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RenderMode selects how build responses are rendered.
type RenderMode string

const (
	// RenderGuided interleaves advisories with the outcome and appends
	// next-step hints. The default.
	RenderGuided RenderMode = "guided"
	// RenderDiagnostics groups findings into compact count-labeled blocks.
	RenderDiagnostics RenderMode = "diagnostics"
)

// Config holds all server settings. The zero value is not usable;
// construct via Default or Load.
type Config struct {
	// RenderMode is chosen once per process lifetime.
	RenderMode RenderMode `yaml:"render_mode"`

	// IncrementalBuilds enables the incremental build cache path for
	// plain build actions.
	IncrementalBuilds bool `yaml:"incremental_builds"`

	// TestEnv suppresses pretty-printer usage entirely so captured
	// output in tests is deterministic and unfiltered.
	TestEnv bool `yaml:"test_env"`

	// ExecTimeout bounds each toolchain invocation. Zero disables the
	// timeout.
	ExecTimeout time.Duration `yaml:"exec_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		RenderMode: RenderGuided,
	}
}

// Path returns the default config file location
// (~/.config/xcodemcp/config.yaml).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "xcodemcp", "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path (if it
// exists; empty path skips the file), and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.RenderMode != RenderGuided && cfg.RenderMode != RenderDiagnostics {
		return cfg, fmt.Errorf("invalid render mode %q (want %q or %q)",
			cfg.RenderMode, RenderGuided, RenderDiagnostics)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("XCODEMCP_RENDER_MODE"); v != "" {
		cfg.RenderMode = RenderMode(v)
	}
	if v := os.Getenv("XCODEMCP_INCREMENTAL_BUILDS"); v != "" {
		cfg.IncrementalBuilds = parseBool(v, cfg.IncrementalBuilds)
	}
	if v := os.Getenv("XCODEMCP_TEST_ENV"); v != "" {
		cfg.TestEnv = parseBool(v, cfg.TestEnv)
	}
	if v := os.Getenv("XCODEMCP_EXEC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ExecTimeout = d
		}
	}
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
