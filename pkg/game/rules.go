package game

import "github.com/yourusername/gammon/internal/bitmask"

// The rule set is fixed and small, so each rule is a free function over
// *State rather than a dispatch table.

// ResultKind classifies a finished game.
type ResultKind string

const (
	ResultWin        ResultKind = "WIN"
	ResultGammon     ResultKind = "GAMMON"
	ResultBackgammon ResultKind = "BACKGAMMON"

	// ResultDrop is a win by declined double; it never comes out of
	// GameOver, only out of a cube phase.
	ResultDrop ResultKind = "DROP"
)

// GameResult is the outcome of a completed game.
type GameResult struct {
	Winner    int
	Points    int
	CubeValue int
	Kind      ResultKind
}

// AllowedStartPoints returns the mask of legal start points for the active
// player. With a stone on the bar, the bar is the only legal start.
func AllowedStartPoints(s *State) bitmask.Mask {
	bar := BarPoint[s.Turn()]
	if s.NumStones(bar, s.Turn()) > 0 {
		return bitmask.Mask(0).Set(bar)
	}
	return s.Occupied(s.Turn())
}

// BearOffAllowed reports whether the active player may bear off: no stone
// may sit outside their home board, the bar included.
func BearOffAllowed(s *State) bool {
	player := s.Turn()
	if s.NumStones(BarPoint[player], player) > 0 {
		return false
	}
	return OutsideHomeMask[player]&s.Occupied(player) == 0
}

// noStoneBehind reports whether the active player has no home-board stone
// farther from the bear-off anchor than start.
func noStoneBehind(s *State, start int) bool {
	player := s.Turn()
	var behind bitmask.Mask
	if player == 0 {
		behind = HomeMask[0].Remove(bitmask.Range(HomeStart[0], start))
	} else {
		behind = HomeMask[1].Remove(bitmask.Range(start, HomeEnd[1]))
	}
	return s.Occupied(player)&behind == 0
}

// CanBearOffFrom decides whether a move from start with die bears off.
// Landing exactly on the anchor always does. An overshooting die bears off
// only if no stone sits behind start and no other occupied home point could
// reach the anchor exactly with this die; exact moves take precedence over
// overshoot moves. The full home scan is intentional and matches the
// official rule.
func CanBearOffFrom(s *State, start, target, die int) bool {
	player := s.Turn()
	anchor := BearOffAnchor[player]

	if target == anchor {
		return true
	}

	overshoot := (player == 0 && target < anchor) || (player == 1 && target > anchor)
	if !overshoot || !noStoneBehind(s, start) {
		return false
	}
	for p := HomeStart[player]; p <= HomeEnd[player]; p++ {
		if s.NumStones(p, player) > 0 && p+die*Direction[player] == anchor {
			return false
		}
	}
	return true
}

// HittableTarget reports whether the target point holds exactly one
// opponent stone.
func HittableTarget(s *State, point int) bool {
	return s.NumStones(point, s.Opponent()) == 1
}

// LegalTargets returns all destinations the active player can reach with
// one die in a single mask pass: shift the start mask in the player's
// direction, clip to the board, drop blocked points.
func LegalTargets(s *State, die int) bitmask.Mask {
	starts := AllowedStartPoints(s)
	shifted := starts.Shift(die*Direction[s.Turn()]) & FullBoardMask
	return shifted.Remove(s.BlockedFor(s.Turn()))
}

// ExpandDice expands a rolled double to four usable die values.
func ExpandDice(dice []int) []int {
	if len(dice) == 2 && dice[0] == dice[1] {
		return []int{dice[0], dice[0], dice[0], dice[0]}
	}
	out := make([]int, len(dice))
	copy(out, dice)
	return out
}

// FilterTurnMoves keeps only the maximal-length sequences; a player must
// use as many dice as legally possible. If only single-die sequences exist,
// only those playing the larger die survive.
func FilterTurnMoves(turnMoves []TurnMove) []TurnMove {
	if len(turnMoves) == 0 {
		return nil
	}

	maxLen := 0
	for _, tm := range turnMoves {
		if len(tm) > maxLen {
			maxLen = len(tm)
		}
	}

	filtered := turnMoves[:0:0]
	for _, tm := range turnMoves {
		if len(tm) == maxLen {
			filtered = append(filtered, tm)
		}
	}

	if maxLen == 1 {
		big := 0
		for _, tm := range filtered {
			if tm[0].Die > big {
				big = tm[0].Die
			}
		}
		highest := filtered[:0:0]
		for _, tm := range filtered {
			if tm[0].Die == big {
				highest = append(highest, tm)
			}
		}
		filtered = highest
	}

	return filtered
}

// GameOver returns the result if either player has borne off all 15
// stones, nil otherwise. A gammon doubles the stake; a backgammon (loser
// still on the bar or in the winner's home board) triples it.
func GameOver(s *State, cubeValue int) *GameResult {
	for player := 0; player < 2; player++ {
		if s.BorneOff(player) != StonesPerPlayer {
			continue
		}
		opp := 1 - player

		gammon := s.BorneOff(opp) == 0
		inWinnerTerritory := s.NumStones(BarPoint[opp], opp) > 0 ||
			s.Occupied(opp)&HomeMask[player] != 0

		mult, kind := 1, ResultWin
		switch {
		case gammon && inWinnerTerritory:
			mult, kind = 3, ResultBackgammon
		case gammon:
			mult, kind = 2, ResultGammon
		}

		return &GameResult{
			Winner:    player,
			Points:    mult * cubeValue,
			CubeValue: cubeValue,
			Kind:      kind,
		}
	}
	return nil
}
