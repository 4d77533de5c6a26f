package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/game"
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "progress", "result", "error"
	Data  interface{} `json:"data"`  // Event data
}

// RolloutSSE handles Server-Sent Events for streaming rollout progress.
// GET /api/rollout/stream?position=...&turn=...&trials=...&workers=...
// The position parameter is the JSON encoding of a PositionList.
func (h *Handlers) RolloutSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	query := r.URL.Query()
	posParam := query.Get("position")
	if posParam == "" {
		writeSSEError(w, "position is required")
		return
	}

	var position game.PositionList
	if err := json.Unmarshal([]byte(posParam), &position); err != nil {
		writeSSEError(w, "invalid position: "+err.Error())
		return
	}

	turn := parseIntParam(query.Get("turn"), 0)
	trials := parseIntParam(query.Get("trials"), 0)
	workers := parseIntParam(query.Get("workers"), 0)
	maxPlies := parseIntParam(query.Get("max_plies"), 0)

	s, err := parseState(position, turn)
	if err != nil {
		writeSSEError(w, "invalid position: "+err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	callback := func(p ai.RolloutProgress) {
		writeSSEEvent(w, "progress", p)
		flusher.Flush()
	}

	result := ai.RolloutWithProgress(s, ai.RolloutOptions{
		Trials:   trials,
		Workers:  workers,
		MaxPlies: maxPlies,
	}, callback)

	writeSSEEvent(w, "result", result)
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and flushes if possible.
func writeSSEError(w http.ResponseWriter, msg string) {
	writeSSEEvent(w, "error", map[string]string{"error": msg})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer query parameter with a fallback.
func parseIntParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
