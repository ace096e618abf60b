package llm

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"reposcope/internal/util/jsonutil"
)

//go:embed prompts/file_picker.md prompts/summarizer.md
var promptFS embed.FS

func loadPrompt(name string) string {
	raw, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		// Embedded at build time; a missing prompt is a packaging bug.
		panic(fmt.Sprintf("llm: missing embedded prompt %s: %v", name, err))
	}
	return strings.TrimSpace(string(raw))
}

// PickFiles asks the completion service which files to read given the
// rendered tree and the remaining token budget. The budget is passed as
// a hint; the model is not assumed to honor it precisely. The returned
// usage covers this single call regardless of outcome.
//
// An unparseable or empty response yields a nil path list and no error:
// guidance failure is not fatal, the caller falls back to the
// deterministic picker.
func PickFiles(ctx context.Context, c Client, treeText string, tokenBudget int) ([]string, Usage, error) {
	system := strings.NewReplacer(
		"{token_budget}", fmt.Sprintf("%d", tokenBudget),
		"{byte_budget}", fmt.Sprintf("%d", tokenBudget*4),
	).Replace(loadPrompt("file_picker.md"))
	user := "Here is the directory tree with file sizes:\n\n" + treeText

	resp, usage, err := c.Complete(ctx, system, user)
	if err != nil {
		return nil, usage, err
	}
	paths := ParseFileList(resp)
	if len(paths) == 0 {
		log.Printf("llm: file picker returned no usable paths (raw: %.120s)", resp)
	}
	return paths, usage, nil
}

// ParseFileList extracts a JSON array of path strings from a model
// response. It tolerates a surrounding markdown fence and an array
// embedded among prose; anything unparseable yields an empty list.
func ParseFileList(resp string) []string {
	text := jsonutil.StripFence(resp)

	if paths, ok := decodeStringList([]byte(text)); ok {
		return paths
	}
	if slice, ok := jsonutil.SliceArray(text); ok {
		if paths, ok := decodeStringList([]byte(slice)); ok {
			return paths
		}
	}
	return nil
}

func decodeStringList(raw []byte) ([]string, bool) {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	paths := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			paths = append(paths, s)
		}
	}
	return paths, true
}
