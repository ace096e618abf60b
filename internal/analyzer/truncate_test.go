package analyzer

import (
	"strings"
	"testing"

	"reposcope/internal/tokens"
)

func TestTruncateUnderCeilingUnchanged(t *testing.T) {
	content := "one two three\nfour five"
	if got := Truncate(content, 5); got != content {
		t.Fatalf("content at ceiling must pass through, got %q", got)
	}
	if got := Truncate(content, 100); got != content {
		t.Fatalf("content under ceiling must pass through, got %q", got)
	}
}

func TestTruncateDropsWholeLines(t *testing.T) {
	content := "alpha beta gamma\ndelta epsilon zeta\neta theta iota"
	got := Truncate(content, 4)

	if !strings.HasPrefix(got, "alpha beta gamma\n") {
		t.Fatalf("first line must survive, got %q", got)
	}
	if strings.Contains(got, "delta") {
		t.Fatalf("second line exceeds ceiling, got %q", got)
	}
	if !strings.Contains(got, "truncated") {
		t.Fatalf("marker missing, got %q", got)
	}
	if !strings.Contains(got, "9 tokens total, showing first 3") {
		t.Fatalf("marker counts wrong, got %q", got)
	}
}

func TestTruncateContentStaysWithinCeiling(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "word word word word word")
	}
	content := strings.Join(lines, "\n")

	ceiling := 42
	got := Truncate(content, ceiling)

	// The marker itself is not budgeted; measure the kept content only.
	marker := strings.LastIndex(got, "\n\n[... truncated")
	if marker < 0 {
		t.Fatalf("marker missing, got %q", got)
	}
	if n := tokens.Estimate(got[:marker]); n > ceiling {
		t.Fatalf("kept content is %d tokens, ceiling %d", n, ceiling)
	}
}

func TestTruncateOversizedFirstLine(t *testing.T) {
	got := Truncate("one two three four five", 2)
	if !strings.HasPrefix(got, "\n[... truncated") {
		t.Fatalf("expected marker-only output, got %q", got)
	}
	if !strings.Contains(got, "showing first 0") {
		t.Fatalf("expected zero shown, got %q", got)
	}
}
