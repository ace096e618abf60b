package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultNebiusBaseURL = "https://api.tokenfactory.nebius.com/v1/chat/completions"
	// Llama-3.3-70B: fast inference, reliable structured JSON output,
	// no hidden reasoning tokens.
	defaultNebiusModel = "meta-llama/Llama-3.3-70B-Instruct"
)

// NebiusClient calls the Nebius Token Factory chat completions API
// (OpenAI-compatible).
type NebiusClient struct {
	http          *http.Client
	apiKey        string
	model         string
	baseURL       string
	contextTokens int
	fileTokens    int
}

// NewNebiusClient creates a Nebius client. An empty apiKey falls back
// to the NEBIUS_API_KEY env var.
func NewNebiusClient(apiKey, model string) *NebiusClient {
	if apiKey == "" {
		apiKey = os.Getenv("NEBIUS_API_KEY")
	}
	if model == "" {
		model = defaultNebiusModel
	}
	return &NebiusClient{
		http:          &http.Client{Timeout: 120 * time.Second},
		apiKey:        apiKey,
		model:         model,
		baseURL:       defaultNebiusBaseURL,
		contextTokens: DefaultContextTokens,
		fileTokens:    DefaultFileTokens,
	}
}

// NewNebiusClientAt targets a non-default endpoint. Used by tests.
func NewNebiusClientAt(baseURL, apiKey, model string) *NebiusClient {
	c := NewNebiusClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

func (n *NebiusClient) Name() string       { return "nebius:" + n.model }
func (n *NebiusClient) ContextTokens() int { return n.contextTokens }
func (n *NebiusClient) FileTokens() int    { return n.fileTokens }
func (n *NebiusClient) Close() error       { return nil }

type nebiusChatReq struct {
	Model       string          `json:"model"`
	Messages    []nebiusMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
}

type nebiusMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type nebiusChatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (n *NebiusClient) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	body, _ := json.Marshal(nebiusChatReq{
		Model: n.model,
		Messages: []nebiusMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", Usage{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return "", Usage{}, fmt.Errorf("nebius: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", Usage{}, fmt.Errorf("nebius: %w", ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", Usage{}, fmt.Errorf("nebius: unexpected status %s: %s",
			resp.Status, strings.TrimSpace(string(raw)))
	}

	var out nebiusChatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", Usage{}, fmt.Errorf("nebius: decode response: %w", err)
	}
	usage := Usage{
		InputTokens:  out.Usage.PromptTokens,
		OutputTokens: out.Usage.CompletionTokens,
		TotalTokens:  out.Usage.TotalTokens,
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", usage, ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, usage, nil
}

func init() {
	Register("nebius", func(ctx context.Context) (Client, error) {
		return NewNebiusClient("", os.Getenv("NEBIUS_MODEL")), nil
	})
}
