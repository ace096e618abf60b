package tree

import "reposcope/internal/repo"

// PruneConfig tunes the post-filter collapse pass.
type PruneConfig struct {
	// MaxChildren collapses any directory with more direct children
	// than this: the children are dropped from the listing, the
	// directory itself stays and is annotated by the renderer.
	MaxChildren int
	// MaxTotalEntries caps the listing after collapsing, keeping
	// prefix order.
	MaxTotalEntries int
}

func DefaultPruneConfig() PruneConfig {
	return PruneConfig{MaxChildren: 30, MaxTotalEntries: 200}
}

// Prune collapses oversized directories and caps the total entry count.
// Depth limiting and skip filtering are the source's job; this pass only
// shapes an already-filtered listing. Discovery order is preserved
// throughout, so upstream order decides what survives the cap.
//
// The returned set holds the paths of collapsed directories, for the
// renderer's annotation. Pruning an already-pruned listing is a no-op.
func Prune(entries []repo.Entry, cfg PruneConfig) ([]repo.Entry, map[string]bool) {
	if cfg.MaxChildren <= 0 {
		cfg.MaxChildren = DefaultPruneConfig().MaxChildren
	}
	if cfg.MaxTotalEntries <= 0 {
		cfg.MaxTotalEntries = DefaultPruneConfig().MaxTotalEntries
	}

	childCounts := make(map[string]int)
	for _, e := range entries {
		childCounts[e.Parent()]++
	}

	collapsed := make(map[string]bool)
	for parent, count := range childCounts {
		if parent != "" && count > cfg.MaxChildren {
			collapsed[parent] = true
		}
	}

	result := entries
	if len(collapsed) > 0 {
		result = make([]repo.Entry, 0, len(entries))
		for _, e := range entries {
			if collapsed[e.Parent()] {
				continue
			}
			result = append(result, e)
		}
	}

	if len(result) > cfg.MaxTotalEntries {
		result = result[:cfg.MaxTotalEntries]
	}
	return result, collapsed
}
