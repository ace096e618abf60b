// Package api exposes the analysis pipeline over HTTP: a JSON
// summarize endpoint, a websocket variant that streams run progress,
// and a health check.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"reposcope/internal/analyzer"
	"reposcope/internal/llm"
	"reposcope/internal/repo"
)

// Runner is the slice of the analyzer the handlers need. The progress
// callback is per-call so concurrent requests never share one.
type Runner interface {
	Run(ctx context.Context, id repo.ID, onProgress func(analyzer.Event)) (llm.SummaryResult, *analyzer.Stats, error)
}

type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

// Routes registers all endpoints on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/summarize", h.handleSummarize)
	mux.HandleFunc("/summarize/ws", h.handleSummarizeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	return mux
}

type summarizeRequest struct {
	GitHubURL string `json:"github_url"`
}

type summarizeResponse struct {
	Summary      string          `json:"summary"`
	Technologies []string        `json:"technologies"`
	Structure    string          `json:"structure"`
	Stats        *analyzer.Stats `json:"stats,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Status: "error", Message: msg})
}

// statusFor maps the error taxonomy onto HTTP codes. Summary-parse
// failures stay distinguishable from transport failures in the message
// even though both surface as 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repo.ErrRateLimited), errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.GitHubURL) == "" {
		writeError(w, http.StatusBadRequest, "github_url must not be empty")
		return
	}
	id, err := repo.ParseURL(req.GitHubURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, stats, err := h.runner.Run(r.Context(), id, nil)
	if err != nil {
		log.Printf("summarize %s failed: %v", id, err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summarizeResponse{
		Summary:      result.Summary,
		Technologies: result.Technologies,
		Structure:    result.Structure,
		Stats:        stats,
	})
}

// CORS wraps a handler with permissive cross-origin headers.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
