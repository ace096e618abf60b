// Package llm provides the completion-service capability used for both
// guided file selection and final summarization, with swappable
// provider backends behind a registry.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse means the provider answered without any text
	// candidate.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrRateLimited means the provider rejected a request due to quota.
	ErrRateLimited = errors.New("llm: rate limit exceeded")

	// ErrUnparseableSummary means the summarizer response could not be
	// coerced into the expected structured shape even after the bounded
	// repair heuristics. It indicates a model-output-quality problem,
	// not a transport problem.
	ErrUnparseableSummary = errors.New("could not parse summarizer response as JSON")
)

// Default context budget for repository content and per-file ceiling.
const (
	DefaultContextTokens = 80_000
	DefaultFileTokens    = 10_000
)

// Usage counts tokens for one or more completion calls, as reported by
// the provider.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
		TotalTokens:  u.TotalTokens + o.TotalTokens,
	}
}

// Client is the completion-service capability. Complete sends one
// system+user exchange and returns the raw response text along with the
// provider-reported usage for that single call. Clients hold no per-run
// state: usage is returned, never accumulated on the client, so
// concurrent analysis runs stay isolated.
type Client interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, Usage, error)

	// ContextTokens is the context budget for assembled repository
	// content; FileTokens the per-file truncation ceiling.
	ContextTokens() int
	FileTokens() int

	Close() error
}

// SummaryResult is the structured output of the summarization call.
type SummaryResult struct {
	Summary      string   `json:"summary"`
	Technologies []string `json:"technologies"`
	Structure    string   `json:"structure"`
}
