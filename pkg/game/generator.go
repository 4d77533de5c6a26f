package game

// SingleMoves generates every legal single move for the active player with
// the given die. Start points obey bar priority; a start either reaches a
// legal on-board target (normal or hit) or bears off when the bear-off
// rules allow it.
func SingleMoves(s *State, die int) []SingleMove {
	player := s.Turn()
	legal := LegalTargets(s, die)
	canBearOff := BearOffAllowed(s)

	var moves []SingleMove
	for _, start := range AllowedStartPoints(s).Indices() {
		target := start + die*Direction[player]

		if IsOnBoard(target) && legal.IsSet(target) {
			mtype := MoveNormal
			if HittableTarget(s, target) {
				mtype = MoveHit
			}
			moves = append(moves, SingleMove{player, start, target, mtype, die})
			continue
		}

		if canBearOff && CanBearOffFrom(s, start, target, die) {
			moves = append(moves, SingleMove{player, start, BearOffAnchor[player], MoveBearOff, die})
		}
	}
	return moves
}

// genKey identifies a search node by position hash plus the remaining dice
// multiset (sorted, zero-padded).
type genKey struct {
	hash uint64
	dice [4]int8
}

func makeGenKey(hash uint64, dice []int) genKey {
	k := genKey{hash: hash}
	for i, d := range dice {
		k.dice[i] = int8(d)
	}
	// insertion sort, at most four entries
	for i := 1; i < 4; i++ {
		for j := i; j > 0 && k.dice[j] < k.dice[j-1]; j-- {
			k.dice[j], k.dice[j-1] = k.dice[j-1], k.dice[j]
		}
	}
	return k
}

func anyMoveLeft(s *State, dice []int) bool {
	seen := [7]bool{}
	for _, die := range dice {
		if seen[die] {
			continue
		}
		seen[die] = true
		if len(SingleMoves(s, die)) > 0 {
			return true
		}
	}
	return false
}

// AllTurnMoves runs a depth-first search over the remaining dice multiset
// and returns every maximal legal move sequence, unfiltered. The state is
// mutated during the search and restored before returning. A transposition
// memo keyed by (hash, remaining dice) prunes sub-problems reached through
// different dice orderings; it lives only for this one call.
func AllTurnMoves(s *State, dice []int) []TurnMove {
	var turnMoves []TurnMove
	visited := make(map[genKey]struct{})
	path := make([]SingleMove, 0, 4)

	var dfs func(diceLeft []int)
	dfs = func(diceLeft []int) {
		if !anyMoveLeft(s, diceLeft) {
			if len(path) > 0 {
				tm := make(TurnMove, len(path))
				copy(tm, path)
				turnMoves = append(turnMoves, tm)
			}
			return
		}

		key := makeGenKey(s.Hash(), diceLeft)
		if _, ok := visited[key]; ok {
			return
		}
		visited[key] = struct{}{}

		seen := [7]bool{}
		for idx, die := range diceLeft {
			if seen[die] {
				continue
			}
			seen[die] = true

			moves := SingleMoves(s, die)
			if len(moves) == 0 {
				continue
			}

			remaining := make([]int, 0, len(diceLeft)-1)
			remaining = append(remaining, diceLeft[:idx]...)
			remaining = append(remaining, diceLeft[idx+1:]...)

			for _, m := range moves {
				s.Apply(m)
				path = append(path, m)
				dfs(remaining)
				path = path[:len(path)-1]
				s.Undo(m)
			}
		}
	}

	dfs(dice)
	return turnMoves
}

// GenerateLegalMoves returns the full, filtered set of legal turn sequences
// for a dice roll. Doubles are expanded to four dice; the raw sequences then
// pass through FilterTurnMoves. An empty result means the player cannot
// move, which is a normal outcome, not an error.
func GenerateLegalMoves(s *State, dice []int) []TurnMove {
	expanded := ExpandDice(dice)
	return FilterTurnMoves(AllTurnMoves(s, expanded))
}
