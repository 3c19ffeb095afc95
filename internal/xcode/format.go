package xcode

import (
	"fmt"
	"strings"

	"xcodemcp/internal/config"
)

// formatInput is everything the response formatter needs. The formatter
// is a pure function of this struct: it never mutates the classified
// lists and has no other inputs.
type formatInput struct {
	Mode      config.RenderMode
	Warnings  []string
	Errors    []string
	Succeeded bool
	Scheme    string
	Action    string
	Target    Target

	// Advisories are free-form notes (pretty-printer missing, incremental
	// cache overridden, ...) shown before the findings. Guided mode only.
	Advisories []string

	// SuggestFullRebuild appends a hint to retry with preferFullBuild
	// after the failure line. Guided mode only.
	SuggestFullRebuild bool
}

// formatResponse renders the final list of content blocks.
func formatResponse(in formatInput) []string {
	if in.Mode == config.RenderDiagnostics {
		return formatDiagnostics(in)
	}
	return formatGuided(in)
}

func formatGuided(in formatInput) []string {
	var blocks []string
	blocks = append(blocks, in.Advisories...)

	for _, w := range in.Warnings {
		blocks = append(blocks, "⚠️ "+w)
	}
	for _, e := range in.Errors {
		if strings.HasPrefix(e, StderrPrefix) {
			// Already tagged with its origin.
			blocks = append(blocks, e)
		} else {
			blocks = append(blocks, "❌ "+e)
		}
	}

	blocks = append(blocks, outcomeLine(in))

	if in.Succeeded && in.Action == "build" {
		blocks = append(blocks, nextSteps(in.Scheme, in.Target))
	}
	if !in.Succeeded && in.SuggestFullRebuild {
		blocks = append(blocks,
			"💡 The incremental build produced no diagnostics. The build cache may be stale — retry with preferFullBuild set to force a full rebuild.")
	}
	return blocks
}

func formatDiagnostics(in formatInput) []string {
	if in.Succeeded && len(in.Warnings) == 0 && len(in.Errors) == 0 {
		return []string{fmt.Sprintf("✅ %s succeeded for scheme %s with no warnings or errors.",
			actionLabel(in.Action), in.Scheme)}
	}

	var blocks []string
	if len(in.Errors) > 0 {
		blocks = append(blocks, bulletBlock(fmt.Sprintf("Errors (%d):", len(in.Errors)), in.Errors))
	}
	if len(in.Warnings) > 0 {
		blocks = append(blocks, bulletBlock(fmt.Sprintf("Warnings (%d):", len(in.Warnings)), in.Warnings))
	}
	blocks = append(blocks, outcomeLine(in))
	return blocks
}

func bulletBlock(header string, lines []string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, line := range lines {
		b.WriteString("\n- ")
		b.WriteString(line)
	}
	return b.String()
}

func outcomeLine(in formatInput) string {
	if in.Succeeded {
		return fmt.Sprintf("✅ %s succeeded for scheme %s.", actionLabel(in.Action), in.Scheme)
	}
	return fmt.Sprintf("❌ %s failed for scheme %s.", actionLabel(in.Action), in.Scheme)
}

func actionLabel(action string) string {
	switch action {
	case "", "build":
		return "Build"
	case "clean":
		return "Clean"
	case "test":
		return "Test"
	default:
		return strings.ToUpper(action[:1]) + action[1:]
	}
}

// nextSteps renders the guided-mode follow-up block shown after a
// successful build action.
func nextSteps(scheme string, t Target) string {
	switch {
	case t.Platform == PlatformMacOS:
		return fmt.Sprintf("Next Steps:\n"+
			"1. Launch the app: use build_run_macos with scheme %s\n"+
			"2. Or locate the app bundle under DerivedData and open it manually", scheme)

	case t.Platform.IsSimulator():
		return fmt.Sprintf("Next Steps:\n"+
			"1. Install and launch the app for scheme %s on simulator %q\n"+
			"2. Capture runtime logs with start_sim_log_capture", scheme, simulatorLabel(t))

	default:
		return fmt.Sprintf("Next Steps:\n"+
			"1. Deploy the app for scheme %s to your connected device\n"+
			"2. If installation fails, verify the signing configuration", scheme)
	}
}

// simulatorLabel is the selector actually used for destination
// resolution: the id when set, the name otherwise.
func simulatorLabel(t Target) string {
	if t.SimulatorID != "" {
		return t.SimulatorID
	}
	return t.SimulatorName
}
