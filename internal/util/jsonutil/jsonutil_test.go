package jsonutil

import "testing"

func TestStripFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"plain fence", "```\n[1, 2]\n```", "[1, 2]"},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with preamble", "Here you go:\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"unterminated fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"whitespace trimmed", "  [1]  ", "[1]"},
	}
	for _, tc := range cases {
		if got := StripFence(tc.in); got != tc.want {
			t.Errorf("%s: StripFence(%q)=%q want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestSliceArray(t *testing.T) {
	got, ok := SliceArray(`I would pick ["a.py", "b.py"] for this repo.`)
	if !ok || got != `["a.py", "b.py"]` {
		t.Fatalf("SliceArray got %q ok=%v", got, ok)
	}
	if _, ok := SliceArray("no array here"); ok {
		t.Fatal("expected no array")
	}
	if _, ok := SliceArray("] backwards ["); ok {
		t.Fatal("expected reversed brackets to fail")
	}
}

func TestSliceObject(t *testing.T) {
	got, ok := SliceObject(`prefix {"a": {"b": 1}} suffix`)
	if !ok || got != `{"a": {"b": 1}}` {
		t.Fatalf("SliceObject got %q ok=%v", got, ok)
	}
}

func TestRepairTruncated(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"open string and brace", `{"summary": "cut off`, `{"summary": "cut off"}`},
		{"open nested braces", `{"a": {"b": 1`, `{"a": {"b": 1}}`},
		{"already balanced", `{"a": 1}`, `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := RepairTruncated(tc.in); got != tc.want {
			t.Errorf("%s: RepairTruncated(%q)=%q want %q", tc.name, tc.in, got, tc.want)
		}
	}
}
