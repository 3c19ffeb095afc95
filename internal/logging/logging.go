// Package logging provides the server's structured logger.
//
// All diagnostics go to stderr: stdout belongs to the MCP stdio
// transport and must stay clean.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the narrow logging surface the build engine depends on.
// Escalated records signal operator-visible diagnostics: a defect in
// this server's own behavior rather than in the code under build.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Escalate logs at error level and tags the record for
	// operator-visible diagnostic reporting.
	Escalate(msg string, args ...any)
}

// SlogLogger implements Logger on top of log/slog.
type SlogLogger struct {
	l *slog.Logger
}

// New returns a Logger writing text records to stderr.
func New() *SlogLogger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter returns a Logger writing to w. Used by tests.
func NewWithWriter(w io.Writer) *SlogLogger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return &SlogLogger{l: slog.New(handler)}
}

func (s *SlogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *SlogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *SlogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *SlogLogger) Escalate(msg string, args ...any) {
	args = append(args, "escalate", true)
	s.l.Error(msg, args...)
}
