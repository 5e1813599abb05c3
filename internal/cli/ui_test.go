package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintNotice(t *testing.T) {
	buf := captureStdout(t)

	printNotice("  The board could not be exported. Please try again.\n")
	out := buf.String()
	if !strings.Contains(out, "Export failed:") {
		t.Errorf("notice missing label: %q", out)
	}
	if !strings.Contains(out, "The board could not be exported. Please try again.") {
		t.Errorf("notice missing message: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("notice should be a single line: %q", out)
	}

	if got := noticeLine("   "); got != "" {
		t.Errorf("noticeLine(blank) = %q, want empty", got)
	}
}

func TestBoardSummary(t *testing.T) {
	tests := []struct {
		items, cols, rows int
		cached            bool
		want              []string
	}{
		{1, 1, 1, false, []string{"1 image", "1x1 grid", "fresh"}},
		{5, 3, 2, false, []string{"5 images", "3x2 grid", "fresh"}},
		{13, 4, 4, true, []string{"13 images", "4x4 grid", "cached"}},
	}
	for _, tt := range tests {
		got := boardSummary(tt.items, tt.cols, tt.rows, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("boardSummary(%d, %d, %d, %v) = %q, missing %q", tt.items, tt.cols, tt.rows, tt.cached, got, w)
			}
		}
	}
}

func TestPrintArtifact(t *testing.T) {
	buf := captureStdout(t)
	printArtifact("out/visionboard.png")
	if !strings.Contains(buf.String(), "out/visionboard.png") {
		t.Errorf("printArtifact output = %q", buf.String())
	}
}
