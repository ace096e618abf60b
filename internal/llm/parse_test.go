package llm

import (
	"errors"
	"testing"
)

func TestParseFileListFenced(t *testing.T) {
	resp := "```json\n[\"a.py\", \"b.py\"]\n```"
	got := ParseFileList(resp)
	want := []string{"a.py", "b.py"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestParseFileListEmbeddedInProse(t *testing.T) {
	resp := `Based on the tree, I would read ["src/main.py", "README.md"] first.`
	got := ParseFileList(resp)
	if len(got) != 2 || got[0] != "src/main.py" || got[1] != "README.md" {
		t.Fatalf("got %v", got)
	}
}

func TestParseFileListBareArray(t *testing.T) {
	got := ParseFileList(`["only.go"]`)
	if len(got) != 1 || got[0] != "only.go" {
		t.Fatalf("got %v", got)
	}
}

func TestParseFileListDropsNonStrings(t *testing.T) {
	got := ParseFileList(`["a.py", 42, {"path": "b.py"}, "c.py"]`)
	if len(got) != 2 || got[0] != "a.py" || got[1] != "c.py" {
		t.Fatalf("got %v", got)
	}
}

func TestParseFileListUnparseable(t *testing.T) {
	for _, resp := range []string{"", "I cannot decide.", "{not json"} {
		if got := ParseFileList(resp); len(got) != 0 {
			t.Errorf("ParseFileList(%q)=%v want empty", resp, got)
		}
	}
}

func TestParseSummaryDirect(t *testing.T) {
	resp := `{"summary": "A web service.", "technologies": ["Python", "FastAPI"], "structure": "Flat layout."}`
	got, err := ParseSummary(resp)
	if err != nil {
		t.Fatalf("ParseSummary: %v", err)
	}
	if got.Summary != "A web service." {
		t.Errorf("summary=%q", got.Summary)
	}
	if len(got.Technologies) != 2 || got.Technologies[1] != "FastAPI" {
		t.Errorf("technologies=%v", got.Technologies)
	}
	if got.Structure != "Flat layout." {
		t.Errorf("structure=%q", got.Structure)
	}
}

func TestParseSummaryFencedWithProse(t *testing.T) {
	resp := "Here is the analysis:\n```json\n{\"summary\": \"CLI tool.\", \"technologies\": [\"Go\"], \"structure\": \"cmd plus internal\"}\n```"
	got, err := ParseSummary(resp)
	if err != nil {
		t.Fatalf("ParseSummary: %v", err)
	}
	if got.Summary != "CLI tool." {
		t.Errorf("summary=%q", got.Summary)
	}
}

func TestParseSummaryRepairsTruncated(t *testing.T) {
	// Cut off mid-string, the way a max-token stop leaves it.
	resp := `{"summary": "A library for parsing`
	got, err := ParseSummary(resp)
	if err != nil {
		t.Fatalf("ParseSummary: %v", err)
	}
	if got.Summary != "A library for parsing" {
		t.Errorf("summary=%q", got.Summary)
	}
}

func TestParseSummaryUnparseable(t *testing.T) {
	_, err := ParseSummary("no json at all")
	if !errors.Is(err, ErrUnparseableSummary) {
		t.Fatalf("want ErrUnparseableSummary, got %v", err)
	}
}
