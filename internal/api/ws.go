package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"reposcope/internal/analyzer"
	"reposcope/internal/repo"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsOutbound struct {
	Type         string          `json:"type"`
	RunID        string          `json:"runId,omitempty"`
	Stage        string          `json:"stage,omitempty"`
	Message      string          `json:"message,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	Technologies []string        `json:"technologies,omitempty"`
	Structure    string          `json:"structure,omitempty"`
	Stats        *analyzer.Stats `json:"stats,omitempty"`
}

// handleSummarizeWS runs one analysis and streams progress events over
// the socket, ending with a result or error frame. The repository URL
// comes in as a query parameter so plain websocket clients can connect
// without a handshake message.
func (h *Handler) handleSummarizeWS(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("github_url")
	if rawURL == "" {
		http.Error(w, "github_url is required", http.StatusBadRequest)
		return
	}
	id, err := repo.ParseURL(rawURL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only serve pong frames; a client closing the socket cancels
	// the run.
	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		flush := func() {
			for {
				select {
				case out := <-writeCh:
					if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
						return
					}
					if err := conn.WriteJSON(out); err != nil {
						return
					}
				default:
					return
				}
			}
		}
		for {
			select {
			case <-ctx.Done():
				// Deliver anything queued (the final frame) before closing.
				flush()
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	push := func(out wsOutbound) {
		select {
		case writeCh <- out:
		case <-ctx.Done():
		}
	}

	result, stats, err := h.runner.Run(ctx, id, func(e analyzer.Event) {
		push(wsOutbound{Type: "progress", RunID: e.RunID, Stage: e.Stage, Message: e.Message})
	})
	if err != nil {
		push(wsOutbound{Type: "error", Message: err.Error()})
	} else {
		push(wsOutbound{
			Type:         "result",
			RunID:        stats.RunID,
			Summary:      result.Summary,
			Technologies: result.Technologies,
			Structure:    result.Structure,
			Stats:        stats,
		})
	}

	cancel()
	<-writerDone
}
