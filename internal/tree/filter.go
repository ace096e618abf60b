// Package tree holds the pure context-assembly logic over repository
// listings: skip filtering, pruning, rendering, and the deterministic
// file selectors. No I/O happens here.
package tree

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"reposcope/internal/repo"
)

// MaxFileSize is the skip ceiling for individual files. Larger files
// are almost never prose worth showing to the summarizer.
const MaxFileSize = 500_000

var skipDirectories = map[string]bool{
	"node_modules": true, "vendor": true, "__pycache__": true,
	".git": true, ".svn": true, ".hg": true,
	"dist": true, "build": true, ".next": true, ".nuxt": true, ".output": true,
	".tox": true, ".nox": true, ".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
	"venv": true, ".venv": true, "env": true, ".env": true,
	".idea": true, ".vscode": true,
	"target":   true,
	"coverage": true, "site-packages": true,
}

var skipExtensions = map[string]bool{
	// binary / media
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
	"ico": true, "svg": true, "webp": true, "avif": true,
	"mp3": true, "mp4": true, "wav": true, "avi": true, "mov": true,
	"webm": true, "ogg": true, "flac": true,
	"ttf": true, "otf": true, "woff": true, "woff2": true, "eot": true,
	"zip": true, "tar": true, "gz": true, "bz2": true, "xz": true,
	"7z": true, "rar": true,
	"exe": true, "dll": true, "so": true, "dylib": true, "bin": true,
	"o": true, "a": true, "wasm": true, "class": true,
	"pyc": true, "pyo": true, "pyd": true,
	// data, usually large and low signal
	"db": true, "sqlite": true, "sqlite3": true,
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	// minified
	"min.js": true, "min.css": true,
}

var skipFilenames = map[string]bool{
	"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
	"poetry.lock": true, "cargo.lock": true, "gemfile.lock": true,
	"composer.lock": true, "go.sum": true,
}

// ShouldSkip reports whether an entry is low-signal and should be
// excluded from analysis. It is a pure function of the entry's fields.
// Rules apply in order, first match wins:
//
//  1. directory with a well-known junk name
//  2. file with a binary/media/compiled/minified extension
//  3. file with a lockfile name
//  4. file larger than MaxFileSize
//  5. pure dotfile (".gitignore" yes, ".env.example" no)
//
// Callers must apply this before expanding directories, so a skipped
// directory is never traversed into.
func ShouldSkip(e repo.Entry) bool {
	nameLower := strings.ToLower(e.Name())

	if e.IsDir() {
		return skipDirectories[nameLower]
	}
	if skipExtensions[e.Extension()] || skipExtensions[doubleExtension(nameLower)] {
		return true
	}
	if skipFilenames[nameLower] {
		return true
	}
	if e.Size > MaxFileSize {
		return true
	}
	if strings.HasPrefix(nameLower, ".") && !strings.Contains(nameLower[1:], ".") {
		return true
	}
	return false
}

// doubleExtension returns the last two dot-separated segments of a
// lowercased name ("app.min.js" -> "min.js"), or "" if there are fewer
// than two dots. Lets compound extensions like min.js match the skip set.
func doubleExtension(nameLower string) string {
	parts := strings.Split(nameLower, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-2] + "." + parts[len(parts)-1]
}

// Filter combines the fixed skip rules with optional user-supplied
// ignore globs (doublestar patterns matched against the full path).
type Filter struct {
	IgnoreGlobs []string
}

func (f Filter) Skip(e repo.Entry) bool {
	if ShouldSkip(e) {
		return true
	}
	for _, pat := range f.IgnoreGlobs {
		if ok, err := doublestar.Match(pat, e.Path); err == nil && ok {
			return true
		}
	}
	return false
}
