// Package api provides the HTTP/JSON analysis surface over the engine
// core: legal-move listing, position evaluation, best-move search and
// Monte Carlo rollouts.
package api

import "github.com/yourusername/gammon/pkg/game"

// ============================================================================
// Request types
// ============================================================================

// MovesRequest asks for all legal turn moves for a dice roll.
type MovesRequest struct {
	Position game.PositionList `json:"position"`       // per-player (point,count) pairs, -1 = borne off
	Turn     int               `json:"turn"`           // active player (0 or 1)
	Dice     [2]int            `json:"dice"`           // rolled dice
	Debug    bool              `json:"debug,omitempty"` // enable invariant re-validation
}

// EvaluateRequest asks for a heuristic score of a position.
type EvaluateRequest struct {
	Position game.PositionList `json:"position"`
	Turn     int               `json:"turn"`
	Player   int               `json:"player"` // player the score is for
}

// BestMoveRequest asks the selector for the best turn move.
type BestMoveRequest struct {
	Position   game.PositionList `json:"position"`
	Turn       int               `json:"turn"`
	Dice       [2]int            `json:"dice"`
	Iterations int               `json:"iterations,omitempty"` // 0 = configured default
	Seed       int64             `json:"seed,omitempty"`       // 0 = random
}

// RolloutRequest asks for a parallel win-rate rollout.
type RolloutRequest struct {
	Position game.PositionList `json:"position"`
	Turn     int               `json:"turn"`
	Trials   int               `json:"trials,omitempty"`    // 0 = default
	Workers  int               `json:"workers,omitempty"`   // 0 = all cores
	MaxPlies int               `json:"max_plies,omitempty"` // 0 = default
	Seed     int64             `json:"seed,omitempty"`      // 0 = random
}

// ============================================================================
// Response types
// ============================================================================

// SingleMoveJSON is the wire form of one atomic move.
type SingleMoveJSON struct {
	Player int    `json:"player"`
	From   int    `json:"from"`
	To     int    `json:"to"`
	Type   string `json:"type"` // NORMAL, HIT, BEAR_OFF
	Die    int    `json:"die"`
}

// TurnMoveJSON is the wire form of a full turn sequence.
type TurnMoveJSON struct {
	Moves   []SingleMoveJSON `json:"moves"`
	Display string           `json:"display"`
}

// MovesResponse lists all legal turn moves.
type MovesResponse struct {
	Moves []TurnMoveJSON `json:"moves"`
	Count int            `json:"count"`
}

// EvaluateResponse carries the heuristic score.
type EvaluateResponse struct {
	Score float64 `json:"score"`
}

// BestMoveResponse carries the selected move; Move is null when the player
// cannot move.
type BestMoveResponse struct {
	Move  *TurnMoveJSON `json:"move"`
	Score float64       `json:"score"`
}

// GameResultJSON is the wire form of a finished game.
type GameResultJSON struct {
	Winner    int    `json:"winner"`
	Points    int    `json:"points"`
	CubeValue int    `json:"cube_value"`
	Kind      string `json:"kind"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse carries a machine-readable error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ============================================================================
// Conversions
// ============================================================================

// MoveToJSON converts a single move to its wire form.
func MoveToJSON(m game.SingleMove) SingleMoveJSON {
	return SingleMoveJSON{
		Player: m.Player,
		From:   m.From,
		To:     m.To,
		Type:   m.Type.String(),
		Die:    m.Die,
	}
}

// TurnMoveToJSON converts a turn move to its wire form.
func TurnMoveToJSON(tm game.TurnMove) TurnMoveJSON {
	out := TurnMoveJSON{
		Moves:   make([]SingleMoveJSON, len(tm)),
		Display: tm.String(),
	}
	for i, m := range tm {
		out.Moves[i] = MoveToJSON(m)
	}
	return out
}
