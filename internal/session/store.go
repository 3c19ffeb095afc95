// Package session persists per-workspace session defaults (scheme,
// configuration, target selection) in SQLite, so tool calls can omit
// parameters that rarely change between invocations.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Defaults holds the remembered build parameters for one workspace or
// project path. Empty fields mean "not set".
type Defaults struct {
	Workspace     string `json:"workspace"`
	Scheme        string `json:"scheme,omitempty"`
	Configuration string `json:"configuration,omitempty"`
	Platform      string `json:"platform,omitempty"`
	SimulatorName string `json:"simulator_name,omitempty"`
	SimulatorID   string `json:"simulator_id,omitempty"`
	DeviceID      string `json:"device_id,omitempty"`
	UpdatedAt     string `json:"updated_at"`
}

// ErrNotFound is returned by Get when no defaults exist for a workspace.
var ErrNotFound = errors.New("session: no defaults for workspace")

// Config holds store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig places the database under ~/.xcodemcp.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".xcodemcp")}
}

// Store is the session-defaults store backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("session: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "session.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("session: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("session: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS defaults (
			workspace      TEXT PRIMARY KEY,
			scheme         TEXT NOT NULL DEFAULT '',
			configuration  TEXT NOT NULL DEFAULT '',
			platform       TEXT NOT NULL DEFAULT '',
			simulator_name TEXT NOT NULL DEFAULT '',
			simulator_id   TEXT NOT NULL DEFAULT '',
			device_id      TEXT NOT NULL DEFAULT '',
			updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the defaults for d.Workspace. Only non-empty fields
// overwrite existing values, so callers can update a single setting.
func (s *Store) Save(d Defaults) error {
	if strings.TrimSpace(d.Workspace) == "" {
		return errors.New("session: workspace is required")
	}
	_, err := s.db.Exec(`
		INSERT INTO defaults
			(workspace, scheme, configuration, platform, simulator_name, simulator_id, device_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(workspace) DO UPDATE SET
			scheme         = CASE WHEN excluded.scheme         != '' THEN excluded.scheme         ELSE scheme         END,
			configuration  = CASE WHEN excluded.configuration  != '' THEN excluded.configuration  ELSE configuration  END,
			platform       = CASE WHEN excluded.platform       != '' THEN excluded.platform       ELSE platform       END,
			simulator_name = CASE WHEN excluded.simulator_name != '' THEN excluded.simulator_name ELSE simulator_name END,
			simulator_id   = CASE WHEN excluded.simulator_id   != '' THEN excluded.simulator_id   ELSE simulator_id   END,
			device_id      = CASE WHEN excluded.device_id      != '' THEN excluded.device_id      ELSE device_id      END,
			updated_at     = datetime('now')`,
		d.Workspace, d.Scheme, d.Configuration, d.Platform,
		d.SimulatorName, d.SimulatorID, d.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("session: save defaults: %w", err)
	}
	return nil
}

// Get returns the defaults for a workspace, or ErrNotFound.
func (s *Store) Get(workspace string) (Defaults, error) {
	var d Defaults
	err := s.db.QueryRow(`
		SELECT workspace, scheme, configuration, platform,
		       simulator_name, simulator_id, device_id, updated_at
		FROM defaults WHERE workspace = ?`, workspace).
		Scan(&d.Workspace, &d.Scheme, &d.Configuration, &d.Platform,
			&d.SimulatorName, &d.SimulatorID, &d.DeviceID, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults{}, ErrNotFound
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("session: get defaults: %w", err)
	}
	return d, nil
}

// Clear removes the defaults for a workspace. Clearing a workspace that
// has no defaults is not an error.
func (s *Store) Clear(workspace string) error {
	if _, err := s.db.Exec(`DELETE FROM defaults WHERE workspace = ?`, workspace); err != nil {
		return fmt.Errorf("session: clear defaults: %w", err)
	}
	return nil
}
