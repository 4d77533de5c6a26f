package api

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/yourusername/gammon/pkg/ai"
	"github.com/yourusername/gammon/pkg/game"
)

// Handlers holds the HTTP handlers plus the shared valuation and search
// configuration. The valuation's score cache is safe for concurrent use;
// every request builds its own state and selector.
type Handlers struct {
	val     *ai.Valuation
	search  ai.SelectorOptions
	version string
	pool    *WorkerPool
}

// NewHandlers creates a Handlers instance.
func NewHandlers(val *ai.Valuation, search ai.SelectorOptions, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		val:     val,
		search:  search,
		version: version,
		pool:    pool,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// parseState builds a game state from a request position list.
func parseState(position game.PositionList, turn int) (*game.State, error) {
	if turn != 0 && turn != 1 {
		return nil, fmt.Errorf("turn must be 0 or 1, got %d", turn)
	}
	s, err := game.NewStateFromList(position, turn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func validDice(dice [2]int) bool {
	return dice[0] >= 1 && dice[0] <= 6 && dice[1] >= 1 && dice[1] <= 6
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// Moves handles POST /api/moves: the full filtered set of legal turn moves.
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	var req MovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if !validDice(req.Dice) {
		writeError(w, http.StatusBadRequest, "dice values must be 1-6", "bad_dice")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
			return
		}
		defer h.pool.ReleaseFast()
	}

	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}
	s.SetDebug(req.Debug)

	moves := game.GenerateLegalMoves(s, req.Dice[:])
	resp := MovesResponse{
		Moves: make([]TurnMoveJSON, len(moves)),
		Count: len(moves),
	}
	for i, tm := range moves {
		resp.Moves[i] = TurnMoveToJSON(tm)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate: heuristic score for a player.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Player != 0 && req.Player != 1 {
		writeError(w, http.StatusBadRequest, "player must be 0 or 1", "bad_player")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
			return
		}
		defer h.pool.ReleaseFast()
	}

	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{Score: h.val.Evaluate(s, req.Player)})
}

// BestMove handles POST /api/bestmove: UCB1 Monte-Carlo move selection.
func (h *Handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	var req BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if !validDice(req.Dice) {
		writeError(w, http.StatusBadRequest, "dice values must be 1-6", "bad_dice")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}

	opts := h.search
	if req.Iterations > 0 {
		opts.Iterations = req.Iterations
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	legal := game.GenerateLegalMoves(s, req.Dice[:])
	sel := ai.NewSelector(h.val, opts, rand.New(rand.NewSource(seed)))
	move, err := sel.SelectMove(s, legal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "search_failed")
		return
	}

	resp := BestMoveResponse{}
	if move != nil {
		tm := TurnMoveToJSON(move)
		resp.Move = &tm

		// Score the chosen move for the mover.
		for _, sm := range move {
			s.Apply(sm)
		}
		resp.Score = h.val.Evaluate(s, req.Turn)
		for i := len(move) - 1; i >= 0; i-- {
			s.Undo(move[i])
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Rollout handles POST /api/rollout: parallel random-playout estimate.
func (h *Handlers) Rollout(w http.ResponseWriter, r *http.Request) {
	var req RolloutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	s, err := parseState(req.Position, req.Turn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "bad_position")
		return
	}

	result := ai.Rollout(s, ai.RolloutOptions{
		Trials:   req.Trials,
		Workers:  req.Workers,
		MaxPlies: req.MaxPlies,
		Seed:     req.Seed,
	})
	writeJSON(w, http.StatusOK, result)
}
