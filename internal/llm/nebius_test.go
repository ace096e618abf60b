package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNebiusComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header %q", got)
		}
		var req nebiusChatReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "hello back"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     10,
				"completion_tokens": 3,
				"total_tokens":      13,
			},
		})
	}))
	t.Cleanup(srv.Close)

	c := NewNebiusClientAt(srv.URL, "test-key", "")
	resp, usage, err := c.Complete(context.Background(), "be brief", "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp != "hello back" {
		t.Fatalf("resp=%q", resp)
	}
	if usage.TotalTokens != 13 || usage.InputTokens != 10 {
		t.Fatalf("usage=%+v", usage)
	}
}

func TestNebiusRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewNebiusClientAt(srv.URL, "test-key", "")
	_, _, err := c.Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
}

func TestNebiusEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	t.Cleanup(srv.Close)

	c := NewNebiusClientAt(srv.URL, "test-key", "")
	_, _, err := c.Complete(context.Background(), "s", "u")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("want ErrEmptyResponse, got %v", err)
	}
}
