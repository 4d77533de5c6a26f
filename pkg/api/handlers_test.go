package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/game"
)

func testHandlers() *Handlers {
	val := ai.NewValuation(ai.DefaultWeights(), 1<<10)
	opts := ai.DefaultSelectorOptions()
	opts.Iterations = 10
	return NewHandlers(val, opts, "test-version", NewWorkerPool(4, 2))
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	req := httptest.NewRequest("POST", "/", bytes.NewReader(buf))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// TestHealthHandler tests the health endpoint.
func TestHealthHandler(t *testing.T) {
	h := testHandlers()

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if health.Status != "ok" {
		t.Errorf("Status = %q, want %q", health.Status, "ok")
	}
	if health.Version != "test-version" {
		t.Errorf("Version = %q, want %q", health.Version, "test-version")
	}
	if health.Pool == nil {
		t.Error("Expected pool stats in health response")
	}
}

func TestMovesHandler(t *testing.T) {
	h := testHandlers()

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "opening position",
			body:       MovesRequest{Position: game.StartingPosition(), Turn: 0, Dice: [2]int{3, 1}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad dice",
			body:       MovesRequest{Position: game.StartingPosition(), Turn: 0, Dice: [2]int{0, 7}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad turn",
			body:       MovesRequest{Position: game.StartingPosition(), Turn: 3, Dice: [2]int{3, 1}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "short position",
			body: MovesRequest{
				Position: game.PositionList{{{Point: 6, Count: 1}}, {{Point: 19, Count: 15}}},
				Turn:     0,
				Dice:     [2]int{3, 1},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h.Moves, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp MovesResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if resp.Count == 0 || len(resp.Moves) != resp.Count {
				t.Errorf("Count = %d with %d moves", resp.Count, len(resp.Moves))
			}
			for _, tm := range resp.Moves {
				if len(tm.Moves) == 0 || tm.Display == "" {
					t.Errorf("empty move entry: %+v", tm)
				}
			}
		})
	}
}

func TestEvaluateHandler(t *testing.T) {
	h := testHandlers()

	w := postJSON(t, h.Evaluate, EvaluateRequest{
		Position: game.StartingPosition(),
		Turn:     0,
		Player:   0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp EvaluateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if resp.Score < -1.0 || resp.Score > 1.0 {
		t.Errorf("Score = %v, want within [-1, 1]", resp.Score)
	}

	// The opening position is symmetric, so both players should score the same.
	w2 := postJSON(t, h.Evaluate, EvaluateRequest{
		Position: game.StartingPosition(),
		Turn:     0,
		Player:   1,
	})
	var resp2 EvaluateResponse
	json.NewDecoder(w2.Body).Decode(&resp2)
	if resp.Score != resp2.Score {
		t.Errorf("asymmetric opening scores: %v vs %v", resp.Score, resp2.Score)
	}
}

func TestEvaluateHandlerBadPlayer(t *testing.T) {
	h := testHandlers()

	w := postJSON(t, h.Evaluate, EvaluateRequest{
		Position: game.StartingPosition(),
		Turn:     0,
		Player:   2,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestBestMoveHandler(t *testing.T) {
	h := testHandlers()

	w := postJSON(t, h.BestMove, BestMoveRequest{
		Position:   game.StartingPosition(),
		Turn:       0,
		Dice:       [2]int{3, 1},
		Iterations: 10,
		Seed:       42,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp BestMoveResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if resp.Move == nil {
		t.Fatal("expected a move for the opening 3-1")
	}
	if len(resp.Move.Moves) != 2 {
		t.Errorf("move length = %d, want 2", len(resp.Move.Moves))
	}
}

func TestBestMoveHandlerDeterministicSeed(t *testing.T) {
	h := testHandlers()

	req := BestMoveRequest{
		Position:   game.StartingPosition(),
		Turn:       1,
		Dice:       [2]int{6, 5},
		Iterations: 20,
		Seed:       7,
	}
	var first BestMoveResponse
	json.NewDecoder(postJSON(t, h.BestMove, req).Body).Decode(&first)
	var second BestMoveResponse
	json.NewDecoder(postJSON(t, h.BestMove, req).Body).Decode(&second)

	if first.Move == nil || second.Move == nil {
		t.Fatal("expected moves from both runs")
	}
	if first.Move.Display != second.Move.Display {
		t.Errorf("same seed chose %q then %q", first.Move.Display, second.Move.Display)
	}
}

func TestRolloutHandler(t *testing.T) {
	if testing.Short() {
		t.Skip("rollout is slow")
	}
	h := testHandlers()

	w := postJSON(t, h.Rollout, RolloutRequest{
		Position: game.StartingPosition(),
		Turn:     0,
		Trials:   20,
		Workers:  2,
		Seed:     99,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var result ai.RolloutResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if result.Trials != 20 {
		t.Errorf("Trials = %d, want 20", result.Trials)
	}
	if result.WinProb < 0 || result.WinProb > 1 {
		t.Errorf("WinProb = %v, want within [0, 1]", result.WinProb)
	}
}

func TestInvalidBody(t *testing.T) {
	h := testHandlers()

	req := httptest.NewRequest("POST", "/api/moves", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Moves(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if errResp.Code != "bad_request" {
		t.Errorf("Code = %q, want %q", errResp.Code, "bad_request")
	}
}
