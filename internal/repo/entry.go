package repo

import "strings"

// Kind distinguishes files from directories in a repository tree.
type Kind string

const (
	KindFile Kind = "file"
	KindDir  Kind = "dir"
)

// Entry is one file or directory discovered in a repository tree.
// Paths are slash-separated and relative to the repository root.
// Size is in bytes and always 0 for directories.
type Entry struct {
	Path string
	Kind Kind
	Size int64
}

func (e Entry) IsDir() bool { return e.Kind == KindDir }

// Name returns the final path segment.
func (e Entry) Name() string {
	if i := strings.LastIndexByte(e.Path, '/'); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// Extension returns the lowercased suffix after the last dot in the
// name, without the dot. Empty if the name has no dot.
func (e Entry) Extension() string {
	name := e.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		return strings.ToLower(name[i+1:])
	}
	return ""
}

// Depth is the directory nesting depth: 0 for root-level entries.
func (e Entry) Depth() int {
	return strings.Count(e.Path, "/")
}

// Parent returns the path of the containing directory, "" for root-level
// entries.
func (e Entry) Parent() string {
	if i := strings.LastIndexByte(e.Path, '/'); i >= 0 {
		return e.Path[:i]
	}
	return ""
}
