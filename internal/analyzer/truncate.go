package analyzer

import (
	"fmt"
	"strings"

	"reposcope/internal/tokens"
)

// Truncate clips content to roughly ceiling tokens by dropping whole
// lines. Content at or under the ceiling is returned unchanged.
// Otherwise lines are kept while the running estimate stays within the
// ceiling, and a marker line reports the original and shown sizes.
//
// If even the first line exceeds the ceiling, zero lines are kept and
// the marker alone is returned. That degenerate output is intentional.
func Truncate(content string, ceiling int) string {
	total := tokens.Estimate(content)
	if total <= ceiling {
		return content
	}

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	shown := 0
	for _, line := range lines {
		n := tokens.Estimate(line)
		if shown+n > ceiling {
			break
		}
		kept = append(kept, line)
		shown += n
	}

	kept = append(kept, fmt.Sprintf(
		"\n[... truncated — %d tokens total, showing first %d ...]", total, shown))
	return strings.Join(kept, "\n")
}
