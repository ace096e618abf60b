package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"reposcope/internal/util/jsonutil"
)

// Summarize sends the assembled context to the completion service and
// parses the structured summary. Parse failure here is fatal, unlike
// file-picking: there is no fallback for the final summary.
func Summarize(ctx context.Context, c Client, contextText string) (SummaryResult, Usage, error) {
	resp, usage, err := c.Complete(ctx, loadPrompt("summarizer.md"), contextText)
	if err != nil {
		return SummaryResult{}, usage, err
	}
	result, err := ParseSummary(resp)
	return result, usage, err
}

// ParseSummary coerces a model response into a SummaryResult. Recovery
// is strictly bounded: fence stripping, object boundary sniffing, and
// truncated-object repair (close odd quotes, balance braces). Anything
// beyond that surfaces ErrUnparseableSummary.
func ParseSummary(resp string) (SummaryResult, error) {
	text := jsonutil.StripFence(resp)

	var result SummaryResult
	if err := json.Unmarshal([]byte(text), &result); err == nil {
		return result, nil
	}

	if slice, ok := jsonutil.SliceObject(text); ok {
		if err := json.Unmarshal([]byte(slice), &result); err == nil {
			return result, nil
		}
	}

	// The object may have been cut off mid-generation. Take everything
	// from the opening brace and close what is open.
	if tail, ok := jsonutil.ObjectTail(text); ok {
		repaired := jsonutil.RepairTruncated(tail)
		if err := json.Unmarshal([]byte(repaired), &result); err == nil {
			return result, nil
		}
	}

	return SummaryResult{}, fmt.Errorf("%w: %.200s", ErrUnparseableSummary, text)
}
