// Package tokens provides the approximate size measure used for all
// context-budget arithmetic. The estimate is deterministic and roughly
// proportional to text length; it is not tied to any model's tokenizer.
package tokens

import "strings"

// Estimate returns an approximate token count for text. It counts
// whitespace-delimited words and falls back to a character-based
// heuristic for text without whitespace. Empty text estimates to 0.
func Estimate(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if words := strings.Fields(text); len(words) > 0 {
		return len(words)
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
