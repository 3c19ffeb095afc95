package xcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_WarningsAndErrors(t *testing.T) {
	stdout := "note: building\n" +
		"main.swift:10: warning: unused variable\n" +
		"main.swift:20: error: cannot find 'foo'\n"

	c := Classify(stdout, "")

	assert.Equal(t, []string{"main.swift:10: warning: unused variable"}, c.Warnings)
	assert.Equal(t, []string{"main.swift:20: error: cannot find 'foo'"}, c.Errors)
}

func TestClassify_WarningWinsWhenBothMarkersPresent(t *testing.T) {
	line := "thing.swift:1: warning: shadowing error: of outer value"
	c := Classify(line+"\n", "")

	assert.Equal(t, []string{line}, c.Warnings)
	assert.Empty(t, c.Errors)
}

func TestClassify_CaseInsensitiveMarkers(t *testing.T) {
	c := Classify("a.swift:1: WARNING: loud\nb.swift:2: Error: mixed\n", "")

	assert.Len(t, c.Warnings, 1)
	assert.Len(t, c.Errors, 1)
}

func TestClassify_DeduplicatesPreservingOrder(t *testing.T) {
	stdout := "x: error: first\n" +
		"x: error: second\n" +
		"x: error: first\n" +
		"  x: error: second  \n"

	c := Classify(stdout, "")

	assert.Equal(t, []string{"x: error: first", "x: error: second"}, c.Errors)
}

func TestClassify_NoDuplicatesForAnyInput(t *testing.T) {
	stdout := "w: warning: a\nw: warning: a\ne: error: b\ne: error: b\n"
	c := Classify(stdout, "e: error: b\ne: error: b")

	seen := map[string]bool{}
	for _, w := range c.Warnings {
		assert.False(t, seen[w], "duplicate warning %q", w)
		seen[w] = true
	}
	seen = map[string]bool{}
	for _, e := range c.Errors {
		assert.False(t, seen[e], "duplicate error %q", e)
		seen[e] = true
	}
}

func TestClassify_StderrLinesTaggedAndAppended(t *testing.T) {
	c := Classify("a: error: from stdout\n", "Compilation error\n\n  spaced  \n")

	assert.Equal(t, []string{
		"a: error: from stdout",
		"[stderr] Compilation error",
		"[stderr] spaced",
	}, c.Errors)
}

func TestClassify_EmptyInput(t *testing.T) {
	c := Classify("", "")
	assert.Empty(t, c.Warnings)
	assert.Empty(t, c.Errors)
}

func TestClassify_DedupIsPerList(t *testing.T) {
	// The same text may appear in warnings and errors when stderr
	// repeats a stdout warning; dedup never crosses lists.
	c := Classify("hm: warning: odd\n", "hm: warning: odd")

	assert.Equal(t, []string{"hm: warning: odd"}, c.Warnings)
	assert.Equal(t, []string{"[stderr] hm: warning: odd"}, c.Errors)
}
