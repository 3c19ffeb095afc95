package xcode

import "strings"

// StderrPrefix tags error lines that originated on stderr rather than in
// the xcodebuild stdout stream.
const StderrPrefix = "[stderr]"

// Classified holds the warning and error lines extracted from one build
// invocation. Both lists are trimmed, deduplicated by exact text, and
// keep first-seen order. Deduplication is per-list, not across both.
type Classified struct {
	Warnings []string
	Errors   []string
}

// Classify scans captured stdout for warning/error markers and merges
// the result with stderr lines.
//
// A line matches by case-insensitive substring on "warning:" / "error:",
// with warning checked first — a line containing both markers counts as a
// warning. This is deliberately imprecise (a path containing "error:"
// would match too); callers depend on the exact behavior, so it stays.
//
// Every non-empty stderr line is tagged with StderrPrefix and appended
// after the stdout-derived errors.
func Classify(stdout, stderr string) Classified {
	var c Classified
	seenWarnings := map[string]bool{}
	seenErrors := map[string]bool{}

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "warning:"):
			if !seenWarnings[line] {
				seenWarnings[line] = true
				c.Warnings = append(c.Warnings, line)
			}
		case strings.Contains(lower, "error:"):
			if !seenErrors[line] {
				seenErrors[line] = true
				c.Errors = append(c.Errors, line)
			}
		}
	}

	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tagged := StderrPrefix + " " + line
		if !seenErrors[tagged] {
			seenErrors[tagged] = true
			c.Errors = append(c.Errors, tagged)
		}
	}

	return c
}
