package analyzer

import (
	"fmt"
	"strings"
	"time"

	"reposcope/internal/llm"
)

// Stats is the read-only record of one analysis run: entry counts,
// per-zone token consumption, completion-service usage, and timing.
type Stats struct {
	RunID string `json:"run_id"`

	TreeEntriesRaw    int `json:"tree_entries_raw"`
	TreeEntriesPruned int `json:"tree_entries_pruned"`
	TreeTokens        int `json:"tree_tokens"`

	Tier1Files  int `json:"tier1_files"`
	Tier1Tokens int `json:"tier1_tokens"`

	GuidedRequested int `json:"guided_files_requested"`
	GuidedFetched   int `json:"guided_files_fetched"`
	GuidedTokens    int `json:"guided_tokens"`

	TotalTokens int `json:"total_tokens"`
	Budget      int `json:"budget"`

	LLMUsage llm.Usage `json:"llm_usage"`

	Elapsed time.Duration `json:"elapsed"`
}

func (s *Stats) BudgetUsedPct() float64 {
	if s.Budget == 0 {
		return 0
	}
	return float64(s.TotalTokens) / float64(s.Budget) * 100
}

// Report renders a human-readable budget/usage box for CLI output.
func (s *Stats) Report() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	line("  ┌─ Context Budget ─────────────────────────────")
	line("  │ Tree:    %7d tokens (%d → %d entries)", s.TreeTokens, s.TreeEntriesRaw, s.TreeEntriesPruned)
	line("  │ Tier-1:  %7d tokens (%d files)", s.Tier1Tokens, s.Tier1Files)
	line("  │ Guided:  %7d tokens (%d/%d files)", s.GuidedTokens, s.GuidedFetched, s.GuidedRequested)
	line("  │ Total:   %7d / %d tokens (%.1f%%)", s.TotalTokens, s.Budget, s.BudgetUsedPct())
	line("  ├─ LLM Token Usage ───────────────────────────")
	line("  │ Input:   %7d tokens", s.LLMUsage.InputTokens)
	line("  │ Output:  %7d tokens", s.LLMUsage.OutputTokens)
	line("  │ Total:   %7d tokens", s.LLMUsage.TotalTokens)
	line("  ├──────────────────────────────────────────────")
	line("  │ Time:    %.1fs", s.Elapsed.Seconds())
	b.WriteString("  └──────────────────────────────────────────────")
	return b.String()
}
