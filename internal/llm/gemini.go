package llm

import (
	"context"
	"os"

	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiClient is a thin wrapper around the official genai client. It
// only does the API call itself; parsing and budget decisions live with
// the callers.
type GeminiClient struct {
	cli           *genai.Client
	model         string
	contextTokens int
	fileTokens    int
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		cli:           cli,
		model:         model,
		contextTokens: DefaultContextTokens,
		fileTokens:    DefaultFileTokens,
	}, nil
}

func (g *GeminiClient) Name() string       { return "gemini:" + g.model }
func (g *GeminiClient) ContextTokens() int { return g.contextTokens }
func (g *GeminiClient) FileTokens() int    { return g.fileTokens }
func (g *GeminiClient) Close() error       { return nil }

func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	temp := float32(0.2)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: user}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
			Temperature:       &temp,
		},
	)
	if err != nil {
		return "", Usage{}, err
	}

	var usage Usage
	if m := resp.UsageMetadata; m != nil {
		usage = Usage{
			InputTokens:  int(m.PromptTokenCount),
			OutputTokens: int(m.CandidatesTokenCount),
			TotalTokens:  int(m.TotalTokenCount),
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", usage, ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, usage, nil
}

func init() {
	Register("gemini", func(ctx context.Context) (Client, error) {
		return NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))
	})
}
