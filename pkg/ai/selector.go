package ai

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/yourusername/gammon/pkg/game"
)

// SelectorOptions bounds the UCB1 search. Iteration count and rollout depth
// are the only resource caps; there is no time limit.
type SelectorOptions struct {
	MinDepth   int     // rollout depth at one visit
	MaxDepth   int     // rollout depth cap
	Iterations int     // UCB1 iterations after initialization
	Explore    float64 // UCB1 exploration constant
}

// DefaultSelectorOptions returns the standard search bounds.
func DefaultSelectorOptions() SelectorOptions {
	return SelectorOptions{
		MinDepth:   2,
		MaxDepth:   7,
		Iterations: 120,
		Explore:    1.0,
	}
}

// Selector picks a turn move with UCB1-guided Monte-Carlo search. It
// mutates the state during search and guarantees the position is restored
// bit for bit after every iteration; the root hash is re-checked each time
// and any mismatch aborts the search.
//
// A Selector owns its state exclusively while selecting and is not safe for
// concurrent use; give concurrent searches separate Selectors and state
// copies.
type Selector struct {
	val  *Valuation
	opts SelectorOptions
	rng  *rand.Rand
}

// NewSelector creates a selector using the given valuation and RNG. A
// fixed-seed RNG makes the whole search reproducible.
func NewSelector(val *Valuation, opts SelectorOptions, rng *rand.Rand) *Selector {
	if opts.MinDepth <= 0 {
		opts.MinDepth = 2
	}
	if opts.MaxDepth < opts.MinDepth {
		opts.MaxDepth = opts.MinDepth
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 120
	}
	if opts.Explore <= 0 {
		opts.Explore = 1.0
	}
	return &Selector{val: val, opts: opts, rng: rng}
}

// UCB1 is the upper-confidence-bound score used to pick the next candidate.
func UCB1(value float64, visits, totalVisits int, c float64) float64 {
	return value/float64(visits) + c*math.Sqrt(math.Log(float64(totalVisits+1))/float64(visits))
}

type candidate struct {
	move   game.TurnMove
	value  float64
	visits int
}

// SelectMove returns the best move from legalMoves after running the
// configured number of UCB1 iterations. With no legal moves it returns nil.
// The state is left exactly as it was passed in.
func (sel *Selector) SelectMove(s *game.State, legalMoves []game.TurnMove) (game.TurnMove, error) {
	if len(legalMoves) == 0 {
		return nil, nil
	}

	player := s.Turn()
	rootHash := s.Hash()
	applied := make([]game.SingleMove, 0, 4)

	// Initialize each candidate with a single static evaluation.
	candidates := make([]candidate, len(legalMoves))
	for i, move := range legalMoves {
		for _, sm := range move {
			s.Apply(sm)
			applied = append(applied, sm)
		}
		candidates[i] = candidate{move: move, value: sel.val.Evaluate(s, player), visits: 1}
		for len(applied) > 0 {
			sm := applied[len(applied)-1]
			applied = applied[:len(applied)-1]
			s.Undo(sm)
		}
	}

	for iter := 0; iter < sel.opts.Iterations; iter++ {
		totalVisits := 0
		for i := range candidates {
			totalVisits += candidates[i].visits
		}

		best := 0
		bestScore := math.Inf(-1)
		for i := range candidates {
			score := UCB1(candidates[i].value, candidates[i].visits, totalVisits, sel.opts.Explore)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		cand := &candidates[best]

		// Rollout depth grows with the candidate's visit count.
		depth := sel.opts.MinDepth +
			int(float64(cand.visits)/10*float64(sel.opts.MaxDepth-sel.opts.MinDepth))
		if depth > sel.opts.MaxDepth {
			depth = sel.opts.MaxDepth
		}

		for _, sm := range cand.move {
			s.Apply(sm)
			applied = append(applied, sm)
		}

		reward := sel.rollout(s, depth)

		for len(applied) > 0 {
			sm := applied[len(applied)-1]
			applied = applied[:len(applied)-1]
			s.Undo(sm)
		}

		cand.value += reward
		cand.visits++

		if s.Hash() != rootHash {
			return nil, fmt.Errorf("ai: root state changed during move selection: hash %016x, want %016x",
				s.Hash(), rootHash)
		}
	}

	best := 0
	bestAvg := math.Inf(-1)
	for i := range candidates {
		if avg := candidates[i].value / float64(candidates[i].visits); avg > bestAvg {
			bestAvg = avg
			best = i
		}
	}
	return candidates[best].move, nil
}

// rollout plays up to depth plies of uniformly random legal turn moves,
// switching turns when a player cannot move, then evaluates the end
// position for the player who was on roll when the rollout started. All
// applied moves are undone in strict reverse order before returning.
func (sel *Selector) rollout(s *game.State, depth int) float64 {
	startTurn := s.Turn()

	if game.GameOver(s, 1) != nil {
		return sel.val.Evaluate(s, startTurn)
	}

	var applied []game.SingleMove
	for ply := 0; ply < depth; ply++ {
		dice := []int{sel.rng.Intn(6) + 1, sel.rng.Intn(6) + 1}
		moves := game.GenerateLegalMoves(s, dice)
		if len(moves) == 0 {
			s.SwitchTurn()
			continue
		}

		move := moves[sel.rng.Intn(len(moves))]
		for _, sm := range move {
			s.Apply(sm)
			applied = append(applied, sm)
		}
		s.SwitchTurn()
	}

	reward := sel.val.Evaluate(s, startTurn)

	for len(applied) > 0 {
		sm := applied[len(applied)-1]
		applied = applied[:len(applied)-1]
		s.Undo(sm)
	}
	s.SetTurn(startTurn)

	return reward
}
