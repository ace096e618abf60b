package tree

import (
	"strings"

	"reposcope/internal/repo"
)

// fallbackConfigNames are high-value config/manifest basenames, matched
// case-insensitively near the root.
var fallbackConfigNames = map[string]bool{
	"makefile": true, "cmakelists.txt": true, "meson.build": true,
	"pyproject.toml": true, "setup.py": true, "setup.cfg": true,
	"package.json": true, "cargo.toml": true, "go.mod": true,
	"gemfile": true, "build.gradle": true, "pom.xml": true,
	"dockerfile": true, "docker-compose.yml": true,
}

var fallbackDocExtensions = map[string]bool{
	"md": true, "rst": true, "txt": true,
}

var fallbackSourceExtensions = map[string]bool{
	"py": true, "go": true, "rs": true, "js": true, "ts": true,
	"c": true, "h": true, "java": true, "rb": true, "sh": true,
	"toml": true, "yaml": true, "yml": true, "json": true,
}

// FallbackConfig carries the tuning constants of the deterministic
// picker. The byte ceilings are heuristics with no derived basis, so
// they stay configurable rather than hard-coded.
type FallbackConfig struct {
	MaxDocBytes    int64
	MaxSourceBytes int64
	MaxPicks       int
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{MaxDocBytes: 50_000, MaxSourceBytes: 20_000, MaxPicks: 30}
}

// FallbackPick selects files deterministically when guided selection
// yields nothing. Three phases over files not in claimed, concatenated
// in order and capped at MaxPicks:
//
//	(a) config/manifest basenames at depth <= 1
//	(b) documentation files at depth <= 1 under MaxDocBytes
//	(c) source/config files at depth 0 under MaxSourceBytes
func FallbackPick(entries []repo.Entry, claimed map[string]bool, cfg FallbackConfig) []string {
	if cfg.MaxPicks <= 0 {
		cfg = DefaultFallbackConfig()
	}

	var files []repo.Entry
	for _, e := range entries {
		if !e.IsDir() && !claimed[e.Path] {
			files = append(files, e)
		}
	}

	var picked []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			picked = append(picked, path)
		}
	}

	for _, e := range files {
		if e.Depth() <= 1 && fallbackConfigNames[strings.ToLower(e.Name())] {
			add(e.Path)
		}
	}
	for _, e := range files {
		if e.Depth() <= 1 && fallbackDocExtensions[e.Extension()] && e.Size < cfg.MaxDocBytes {
			add(e.Path)
		}
	}
	for _, e := range files {
		if e.Depth() == 0 && fallbackSourceExtensions[e.Extension()] && e.Size < cfg.MaxSourceBytes {
			add(e.Path)
		}
	}

	if len(picked) > cfg.MaxPicks {
		picked = picked[:cfg.MaxPicks]
	}
	return picked
}
