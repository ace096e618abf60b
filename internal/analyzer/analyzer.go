// Package analyzer orchestrates the context-assembly pipeline: tree
// fetch and pruning, tiered file selection under a token budget, and
// the final summarization call.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"reposcope/internal/llm"
	"reposcope/internal/repo"
	"reposcope/internal/tree"
)

// Event is one progress notification from a running analysis.
type Event struct {
	RunID   string `json:"run_id"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Analyzer drives the tiered pipeline for one repository at a time.
// It holds no per-run state, so a single instance may serve concurrent
// runs.
type Analyzer struct {
	Source repo.Source
	LLM    llm.Client

	Prune    tree.PruneConfig
	Fallback tree.FallbackConfig

	// Tree expansion bounds, enforced by the repository source.
	MaxDepth    int
	MaxAPICalls int

	// GuidedMinTokens is the remaining-budget floor below which the
	// guided-selection round trip is not worth making.
	GuidedMinTokens int

	// OnProgress, when set, receives stage events during a run.
	OnProgress func(Event)
}

func New(source repo.Source, client llm.Client) *Analyzer {
	return &Analyzer{
		Source:          source,
		LLM:             client,
		Prune:           tree.DefaultPruneConfig(),
		Fallback:        tree.DefaultFallbackConfig(),
		MaxDepth:        3,
		MaxAPICalls:     50,
		GuidedMinTokens: 5_000,
	}
}

// Run executes one analysis with a per-call progress callback. The
// receiver is copied so concurrent callers never share a callback.
func (a *Analyzer) Run(ctx context.Context, id repo.ID, onProgress func(Event)) (llm.SummaryResult, *Stats, error) {
	run := *a
	run.OnProgress = onProgress
	return run.Analyze(ctx, id)
}

func (a *Analyzer) emit(runID, stage, format string, args ...any) {
	if a.OnProgress == nil {
		return
	}
	a.OnProgress(Event{RunID: runID, Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// Analyze runs the full pipeline for one repository and returns the
// structured summary with the run's statistics. On error the run is
// aborted; no partial summary is ever returned.
func (a *Analyzer) Analyze(ctx context.Context, id repo.ID) (llm.SummaryResult, *Stats, error) {
	start := time.Now()
	runID := uuid.NewString()
	budget := a.LLM.ContextTokens()
	fileCeiling := a.LLM.FileTokens()

	asm := NewContext(budget)
	stats := &Stats{RunID: runID, Budget: budget}

	log.Printf("analyzing %s (budget=%d ctx, %d/file)", id, budget, fileCeiling)

	// Tree: fetch (pre-filtered by the source), prune, render, account.
	a.emit(runID, "tree", "fetching repository tree")
	rawTree, err := a.Source.FetchTree(ctx, id, a.MaxDepth, a.MaxAPICalls)
	if err != nil {
		return llm.SummaryResult{}, nil, err
	}
	pruned, collapsed := tree.Prune(rawTree, a.Prune)
	treeTokens := asm.SetTree(tree.Render(pruned, collapsed))

	stats.TreeEntriesRaw = len(rawTree)
	stats.TreeEntriesPruned = len(pruned)
	stats.TreeTokens = treeTokens
	log.Printf("tree pruned: %d → %d entries (%d tokens)", len(rawTree), len(pruned), treeTokens)
	a.emit(runID, "tree", "tree ready: %d entries, %d tokens", len(pruned), treeTokens)

	// Tier-1: deterministic always-include files, selected against the
	// raw tree so collapsing never hides a root readme.
	for _, entry := range tree.SelectTier1(rawTree) {
		if asm.Remaining() <= 0 {
			break
		}
		content, err := a.Source.FetchFile(ctx, id, entry.Path)
		if err != nil {
			return llm.SummaryResult{}, nil, err
		}
		n := asm.AddSection(entry.Path, Truncate(content, fileCeiling), ZoneTier1)
		log.Printf("tier-1: %s (%d tokens)", entry.Path, n)
	}
	stats.Tier1Files = asm.Tier1Count()
	stats.Tier1Tokens = asm.Consumed() - treeTokens
	a.emit(runID, "tier1", "added %d always-include files", stats.Tier1Files)

	// Guided tier: only worth a round trip with real budget left.
	guidedStart := asm.Consumed()
	if asm.Remaining() > a.GuidedMinTokens {
		paths, usage, err := llm.PickFiles(ctx, a.LLM, tree.Render(pruned, collapsed), asm.Remaining())
		stats.LLMUsage = stats.LLMUsage.Add(usage)
		if err != nil {
			return llm.SummaryResult{}, nil, err
		}

		// Never re-fetch a path Tier-1 already claimed. The picks are
		// not validated against the tree: the listing may be capped,
		// and a bad path just fails its fetch below.
		claimed := make(map[string]bool)
		kept := paths[:0]
		for _, p := range paths {
			if !asm.Has(p) {
				kept = append(kept, p)
			}
		}
		paths = kept
		log.Printf("guided: picker returned %d usable paths", len(paths))

		if len(paths) == 0 {
			for _, e := range tree.SelectTier1(rawTree) {
				claimed[e.Path] = true
			}
			paths = tree.FallbackPick(rawTree, claimed, a.Fallback)
			log.Printf("guided: fallback picker selected %d paths", len(paths))
		}
		stats.GuidedRequested = len(paths)
		a.emit(runID, "guided", "fetching %d selected files", len(paths))

		for _, path := range paths {
			if asm.Remaining() <= 0 {
				log.Printf("guided: budget exhausted, skipping remaining files")
				break
			}
			content, err := a.Source.FetchFile(ctx, id, path)
			if err != nil {
				if ctx.Err() != nil {
					return llm.SummaryResult{}, nil, err
				}
				// One bad path must not sink the run.
				log.Printf("guided: failed to fetch %s: %v", path, err)
				continue
			}
			n := asm.AddSection(path, Truncate(content, fileCeiling), ZoneGuided)
			log.Printf("guided: %s (%d tokens)", path, n)
		}
	}
	stats.GuidedFetched = asm.GuidedCount()
	stats.GuidedTokens = asm.Consumed() - guidedStart
	stats.TotalTokens = asm.Consumed()

	// Summarize.
	a.emit(runID, "summarize", "requesting summary (%d tokens of context)", asm.Consumed())
	result, usage, err := llm.Summarize(ctx, a.LLM, asm.Render())
	stats.LLMUsage = stats.LLMUsage.Add(usage)
	if err != nil {
		return llm.SummaryResult{}, nil, err
	}

	stats.Elapsed = time.Since(start)
	log.Printf("\n%s", stats.Report())
	a.emit(runID, "done", "analysis complete in %.1fs", stats.Elapsed.Seconds())
	return result, stats, nil
}
