// Package jsonutil recovers JSON payloads from LLM responses. Models
// wrap JSON in markdown fences, surround it with prose, or truncate it
// mid-object; the helpers here undo exactly those failure modes and
// nothing more. Anything beyond fence stripping, boundary sniffing, and
// brace/quote balancing is out of scope and must fail loudly upstream.
package jsonutil

import (
	"regexp"
	"strings"
)

var (
	closedFence = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)```")
	openFence   = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*)")
)

// StripFence removes a markdown code fence around text, tolerating
// preamble prose before the fence and a missing closing fence
// (truncated output). Text without a fence is returned trimmed.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := closedFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := openFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// SliceArray returns the slice of text from the first '[' to the last
// ']' inclusive, for responses embedding a JSON array among prose.
func SliceArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// SliceObject returns the slice of text from the first '{' to the last
// '}' inclusive.
func SliceObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ObjectTail returns text from the first '{' onward, for truncated
// objects with no closing brace at all.
func ObjectTail(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}
	return text[start:], true
}

// RepairTruncated closes an object fragment that was cut off mid-way:
// an odd double-quote count gets a closing quote, then unbalanced
// braces are closed. The result may still be invalid JSON; callers must
// re-parse and treat failure as unrecoverable.
func RepairTruncated(fragment string) string {
	if strings.Count(fragment, `"`)%2 == 1 {
		fragment += `"`
	}
	for strings.Count(fragment, "{") > strings.Count(fragment, "}") {
		fragment += "}"
	}
	return fragment
}
