package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"pinyinsub/internal/deps"
)

func TestStatusLineRenderNoColor(t *testing.T) {
	got := statusLine{"mkvmerge", statusError, "binary \"mkvmerge\" not found"}.render(false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "mkvmerge:", `[ERROR] binary "mkvmerge" not found`)
	if got != want {
		t.Fatalf("render mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestStatusLineRenderWithColor(t *testing.T) {
	got := statusLine{"Summary", statusOK, ""}.render(true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "[OK]"+ansiReset) {
		t.Fatalf("expected bare label and reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	tests := []struct {
		name     string
		statuses []deps.Status
		wantKind statusKind
		summary  string
	}{
		{
			name: "all available",
			statuses: []deps.Status{
				{Name: "mkvmerge", Command: "/usr/bin/mkvmerge", Available: true},
				{Name: "mkvextract", Command: "/usr/bin/mkvextract", Available: true, Optional: true},
			},
			wantKind: statusOK,
			summary:  "all tools available",
		},
		{
			name: "optional missing",
			statuses: []deps.Status{
				{Name: "mkvmerge", Command: "/usr/bin/mkvmerge", Available: true},
				{Name: "mkvextract", Optional: true, Detail: "binary \"mkvextract\" not found"},
			},
			wantKind: statusWarn,
			summary:  "missing mkvextract",
		},
		{
			name: "required missing",
			statuses: []deps.Status{
				{Name: "mkvmerge", Detail: "binary \"mkvmerge\" not found"},
				{Name: "mkvextract", Optional: true, Detail: "binary \"mkvextract\" not found"},
			},
			wantKind: statusError,
			summary:  "missing mkvmerge, mkvextract",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := dependencyLines(tt.statuses)
			if len(lines) != len(tt.statuses)+1 {
				t.Fatalf("expected %d lines, got %d", len(tt.statuses)+1, len(lines))
			}
			summary := lines[len(lines)-1]
			if summary.label != "Summary" || summary.kind != tt.wantKind {
				t.Fatalf("summary = %+v, want kind %d", summary, tt.wantKind)
			}
			if !strings.Contains(summary.message, tt.summary) {
				t.Fatalf("summary message %q missing %q", summary.message, tt.summary)
			}
			if tt.statuses[0].Available && !strings.Contains(lines[0].message, tt.statuses[0].Command) {
				t.Fatalf("expected command path in %q", lines[0].message)
			}
		})
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestStatusCommandReportsConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, _ := runCLI(t, []string{"status"}, env.configPath)
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "mkvmerge:")
	requireContains(t, out, env.configPath)
	requireContains(t, out, "600ms")
}
