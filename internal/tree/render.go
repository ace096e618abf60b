package tree

import (
	"fmt"
	"strings"

	"reposcope/internal/repo"
)

// EmptyRepoSentinel is rendered for a listing with no entries, so a
// downstream reader can distinguish "no entries exist" from missing data.
const EmptyRepoSentinel = "(empty repository)"

// Render renders a listing as a flat block of full paths, one per line.
// Full paths (no indentation) are used deliberately: the summarizer sees
// exact paths and cannot misattribute a file to the wrong directory.
//
//	README.md (2.9 KB)
//	src/requests/
//	src/requests/api.py (5.0 KB)
//	tests/ [collapsed]
func Render(entries []repo.Entry, collapsed map[string]bool) string {
	if len(entries) == 0 {
		return EmptyRepoSentinel
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.IsDir() {
			b.WriteString(e.Path)
			b.WriteByte('/')
			if collapsed[e.Path] {
				b.WriteString(" [collapsed]")
			}
		} else {
			b.WriteString(e.Path)
			b.WriteString(" (")
			b.WriteString(humanSize(e.Size))
			b.WriteByte(')')
		}
	}
	return b.String()
}

func humanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
