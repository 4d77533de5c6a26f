package ai

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/gammon/pkg/game"
)

// Weights holds the linear heuristic weights. Every signal is computed as
// player-minus-opponent, so positive weights favor the evaluated player.
type Weights struct {
	BearOff    float64 `json:"bear_off"`
	Home       float64 `json:"home"`
	Blots      float64 `json:"blots"`
	Blockades  float64 `json:"blockades"`
	Pip        float64 `json:"pip"`
	NormFactor float64 `json:"norm_factor"`
}

// DefaultWeights returns the standard heuristic weighting.
func DefaultWeights() Weights {
	return Weights{
		BearOff:    15.0,
		Home:       2.0,
		Blots:      3.0,
		Blockades:  1.0,
		Pip:        0.1,
		NormFactor: 225.0,
	}
}

// Terminal bonus per result kind, signed by winner.
var gameOverScore = map[game.ResultKind]float64{
	game.ResultWin:        0.6,
	game.ResultGammon:     0.8,
	game.ResultBackgammon: 1.0,
}

// Valuation scores a state for a given player with a weighted heuristic,
// memoizing results by (position hash, player) for its lifetime.
type Valuation struct {
	weights Weights
	wvec    []float64
	cache   *ScoreCache
}

// NewValuation creates a valuation with the given weights and cache size
// (0 means DefaultCacheSize).
func NewValuation(w Weights, cacheSize uint32) *Valuation {
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	return &Valuation{
		weights: w,
		wvec:    []float64{w.BearOff, w.Home, w.Blots, w.Blockades, w.Pip},
		cache:   NewScoreCache(cacheSize),
	}
}

// Cache exposes the score cache for statistics.
func (v *Valuation) Cache() *ScoreCache {
	return v.cache
}

// CountBlots counts the player's unprotected stones: occupied points not
// blocked from the opponent's perspective.
func CountBlots(s *game.State, player int) int {
	opp := 1 - player
	return s.Occupied(player).Remove(s.BlockedFor(opp)).Count()
}

// CountHomeStones counts the player's stones inside their home board.
func CountHomeStones(s *game.State, player int) int {
	total := 0
	for _, p := range (s.Occupied(player) & game.HomeMask[player]).Indices() {
		total += s.NumStones(p, player)
	}
	return total
}

// pipDistance sums stone count times distance to the player's bear-off
// anchor over the playable board.
func pipDistance(s *game.State, player int) int {
	total := 0
	for p := game.BoardStart; p <= game.BoardEnd; p++ {
		if n := s.NumStones(p, player); n > 0 {
			dist := p - game.BearOffAnchor[player]
			if dist < 0 {
				dist = -dist
			}
			total += n * dist
		}
	}
	return total
}

// features fills the five player-minus-opponent signals in weight order:
// bear-off, home stones, blots, blockades, pip distance.
func (v *Valuation) features(s *game.State, player int, f []float64) {
	opp := 1 - player
	f[0] = float64(s.BorneOff(player) - s.BorneOff(opp))
	f[1] = float64(CountHomeStones(s, player) - CountHomeStones(s, opp))
	// Own blots are a penalty, opponent blots a reward.
	f[2] = float64(CountBlots(s, opp) - CountBlots(s, player))
	f[3] = float64(s.BlockedFor(opp).Count() - s.BlockedFor(player).Count())
	f[4] = float64(pipDistance(s, opp) - pipDistance(s, player))
}

// Evaluate scores the state for player. The raw weighted sum plus any
// terminal bonus is squashed through tanh and scaled to a symmetric range.
func (v *Valuation) Evaluate(s *game.State, player int) float64 {
	key := s.Hash()
	ctx := int32(player)
	cached, slot, ok := v.cache.Lookup(key, ctx)
	if ok {
		return cached
	}

	score := 0.0
	if result := game.GameOver(s, 1); result != nil {
		bonus := gameOverScore[result.Kind]
		if result.Winner == player {
			score += bonus
		} else {
			score -= bonus
		}
	}

	var f [5]float64
	v.features(s, player, f[:])
	score += floats.Dot(v.wvec, f[:])

	score = 0.4 * math.Tanh(score/v.weights.NormFactor)

	v.cache.Add(key, ctx, score, slot)
	return score
}

// OfferDouble is the cube-offer heuristic: double once the race is clearly
// won, meaning a loaded home board or stones already borne off.
func (v *Valuation) OfferDouble(s *game.State, player int) bool {
	return CountHomeStones(s, player) >= 10 || s.BorneOff(player) > 0
}

// AcceptDouble is the cube-take heuristic: drop only when the opponent is
// far ahead in the bear-off race.
func (v *Valuation) AcceptDouble(s *game.State, player int) bool {
	opp := 1 - player
	if s.BorneOff(opp) >= 3 && CountHomeStones(s, opp) >= 12 {
		return false
	}
	return true
}
