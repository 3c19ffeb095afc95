package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info("started", "tool", "build_project")
	log.Warn("slow build")
	log.Error("broken")

	out := buf.String()
	for _, want := range []string{
		"level=INFO", "msg=started", "tool=build_project",
		"level=WARN", "level=ERROR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLogger_EscalateTagsRecord(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Escalate("xcodebuild rejected arguments", "exit_code", 64)

	out := buf.String()
	if !strings.Contains(out, "level=ERROR") {
		t.Errorf("escalated record should log at error level:\n%s", out)
	}
	if !strings.Contains(out, "escalate=true") {
		t.Errorf("escalated record should carry the escalate attribute:\n%s", out)
	}
	if !strings.Contains(out, "exit_code=64") {
		t.Errorf("escalated record should keep caller attributes:\n%s", out)
	}
}
