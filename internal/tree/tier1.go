package tree

import (
	"sort"
	"strings"

	"reposcope/internal/repo"
)

// tier1Filenames are the always-include root-level files, matched
// case-insensitively: standard project docs plus agent-instruction files.
var tier1Filenames = map[string]bool{
	"readme.md":  true,
	"readme.rst": true,
	"readme.txt": true,
	"readme":     true,
	"contributing.md": true,
	"security.md":     true,
	// LLM-specific instruction files
	"agents.md":     true,
	"gemini.md":     true,
	"claude.md":     true,
	"copilot.md":    true,
	".cursorrules":  true,
	".clinerules":   true,
	"llms.txt":      true,
	"llms-full.txt": true,
	"context.md":    true,
}

// SelectTier1 returns the well-known always-include files found at the
// repository root, readme variants first (alphabetical among
// themselves), then the remaining matches alphabetically. An empty
// result is normal for repositories without such files.
func SelectTier1(entries []repo.Entry) []repo.Entry {
	var matches []repo.Entry
	for _, e := range entries {
		if e.IsDir() || e.Depth() != 0 {
			continue
		}
		if tier1Filenames[strings.ToLower(e.Name())] {
			matches = append(matches, e)
		}
	}

	rank := func(e repo.Entry) int {
		if strings.HasPrefix(strings.ToLower(e.Name()), "readme") {
			return 0
		}
		return 1
	}
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := rank(matches[i]), rank(matches[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(matches[i].Name()) < strings.ToLower(matches[j].Name())
	})
	return matches
}
