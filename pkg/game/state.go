package game

import (
	"fmt"

	"github.com/yourusername/gammon/internal/bitmask"
)

// State is the complete mutable game state. The board array is the source
// of truth; the occupancy/blocked masks and the Zobrist hash are maintained
// incrementally and must stay consistent with it at all times.
//
// A State is owned by exactly one searcher at a time. Search code mutates it
// with Apply and reverts with Undo in strict LIFO order; independent
// searches need their own Copy.
type State struct {
	// board holds signed stone counts per point index 0-25. Negative
	// counts belong to player 0, positive to player 1. Slots 0 and 25
	// double as the bar anchors.
	board    [NumPoints]int8
	borneOff [2]int8

	occ     [2]bitmask.Mask
	blocked [2]bitmask.Mask

	turn int
	hash uint64

	// debug re-validates all state invariants after every mutating
	// primitive and panics on the first mismatch.
	debug bool
}

// NewState returns a state set up with the standard starting position,
// player 0 to move.
func NewState() *State {
	s, err := NewStateFromList(StartingPosition(), 0)
	if err != nil {
		panic(err) // the built-in layout is always valid
	}
	return s
}

// NewStateFromList builds a state from a serialized position list. It
// rejects lists whose per-player stone totals do not equal 15.
func NewStateFromList(positions PositionList, startPlayer int) (*State, error) {
	s := &State{}
	if err := s.StartGame(positions, startPlayer); err != nil {
		return nil, err
	}
	return s, nil
}

// StartGame resets the state to the given position with startPlayer to move.
func (s *State) StartGame(positions PositionList, startPlayer int) error {
	s.board = [NumPoints]int8{}
	s.borneOff = [2]int8{}
	s.occ = [2]bitmask.Mask{}
	s.blocked = [2]bitmask.Mask{}
	s.turn = startPlayer

	for player := 0; player < 2; player++ {
		total := 0
		for _, pc := range positions[player] {
			if pc.Point == -1 {
				s.borneOff[player] += int8(pc.Count)
				continue
			}
			if pc.Point < 0 || pc.Point >= NumPoints {
				return fmt.Errorf("player %d: point %d out of range", player, pc.Point)
			}
			s.board[pc.Point] = int8(pc.Count) * StoneSign[player]
			total += pc.Count
		}
		if total+int(s.borneOff[player]) != StonesPerPlayer {
			return fmt.Errorf("player %d: invalid number of stones: %d on board + %d borne off",
				player, total, s.borneOff[player])
		}
	}

	s.recomputeMasks()
	s.hash = s.RecomputeHash()
	return nil
}

// SetDebug toggles invariant re-validation after every mutation.
func (s *State) SetDebug(debug bool) {
	s.debug = debug
}

// Copy returns a fully independent deep copy.
func (s *State) Copy() *State {
	c := *s
	return &c
}

// Turn returns the active player index.
func (s *State) Turn() int {
	return s.turn
}

// Opponent returns the inactive player index.
func (s *State) Opponent() int {
	return 1 - s.turn
}

// Hash returns the incrementally maintained Zobrist hash.
func (s *State) Hash() uint64 {
	return s.hash
}

// BorneOff returns how many stones the player has borne off.
func (s *State) BorneOff(player int) int {
	return int(s.borneOff[player])
}

// NumStones returns the player's stone count at a point, zero if the point
// is empty or held by the opponent.
func (s *State) NumStones(point, player int) int {
	n := int(s.board[point]) * int(StoneSign[player])
	if n > 0 {
		return n
	}
	return 0
}

// Occupied returns the mask of points where the player has at least one
// stone.
func (s *State) Occupied(player int) bitmask.Mask {
	return s.occ[player]
}

// BlockedFor returns the mask of points the player cannot land on because
// the opponent holds them with two or more stones.
func (s *State) BlockedFor(player int) bitmask.Mask {
	return s.blocked[player]
}

// HittableMask returns the opponent blots from the active player's
// perspective: opponent-occupied points not blocked for the active player.
func (s *State) HittableMask() bitmask.Mask {
	return s.occ[s.Opponent()].Remove(s.blocked[s.turn])
}

// UnprotectedMask returns the active player's own blots: occupied points
// not held with two or more stones.
func (s *State) UnprotectedMask() bitmask.Mask {
	return s.occ[s.turn].Remove(s.blocked[s.Opponent()])
}

// SwitchTurn flips the active player and updates the hash accordingly.
func (s *State) SwitchTurn() {
	s.hash ^= turnKeys[s.turn] ^ turnKeys[1-s.turn]
	s.turn = 1 - s.turn
}

// SetTurn makes player the active player.
func (s *State) SetTurn(player int) {
	if s.turn != player {
		s.SwitchTurn()
	}
}

// ---- Stone primitives ----

func (s *State) addStone(point, player int) {
	old := s.NumStones(point, player)
	s.board[point] += StoneSign[player]
	s.hash ^= pointKeys[point][player][old]
	s.hash ^= pointKeys[point][player][old+1]
	s.updateMasksAt(point)
}

func (s *State) removeStone(point, player int) {
	old := s.NumStones(point, player)
	if old == 0 {
		return
	}
	s.board[point] -= StoneSign[player]
	s.hash ^= pointKeys[point][player][old]
	s.hash ^= pointKeys[point][player][old-1]
	s.updateMasksAt(point)
}

func (s *State) updateMasksAt(point int) {
	for player := 0; player < 2; player++ {
		if s.NumStones(point, player) > 0 {
			s.occ[player] = s.occ[player].Set(point)
		} else {
			s.occ[player] = s.occ[player].Clear(point)
		}
		if s.NumStones(point, 1-player) >= 2 {
			s.blocked[player] = s.blocked[player].Set(point)
		} else {
			s.blocked[player] = s.blocked[player].Clear(point)
		}
	}
}

func (s *State) recomputeMasks() {
	s.occ = [2]bitmask.Mask{}
	s.blocked = [2]bitmask.Mask{}
	for point := 0; point < NumPoints; point++ {
		s.updateMasksAt(point)
	}
}

// MoveStone relocates one of the player's stones from start to target.
func (s *State) MoveStone(start, target, player int) {
	s.removeStone(start, player)
	s.addStone(target, player)
	s.assert("MoveStone")
}

// UndoStoneMove is the exact inverse of MoveStone.
func (s *State) UndoStoneMove(start, target, player int) {
	s.MoveStone(target, start, player)
	s.assert("UndoStoneMove")
}

// HitStone sends the opponent's lone stone at target to their bar, then
// moves the player's stone from start into target.
func (s *State) HitStone(start, target, player int) {
	opp := 1 - player
	s.MoveStone(target, BarPoint[opp], opp)
	s.MoveStone(start, target, player)
}

// UndoHitStone reverses HitStone in the opposite order: the mover retreats
// first, then the opponent's stone comes back off the bar.
func (s *State) UndoHitStone(start, target, player int) {
	opp := 1 - player
	s.UndoStoneMove(start, target, player)
	s.UndoStoneMove(target, BarPoint[opp], opp)
}

// BearOff removes a stone from the board and increments the player's
// borne-off counter, hashing both transitions.
func (s *State) BearOff(point, player int) {
	old := int(s.borneOff[player])
	s.removeStone(point, player)
	s.borneOff[player]++
	s.hash ^= offKeys[player][old]
	s.hash ^= offKeys[player][old+1]
	s.assert("BearOff")
}

// UndoBearOff is the exact inverse of BearOff.
func (s *State) UndoBearOff(point, player int) {
	old := int(s.borneOff[player])
	s.borneOff[player]--
	s.addStone(point, player)
	s.hash ^= offKeys[player][old]
	s.hash ^= offKeys[player][old-1]
	s.assert("UndoBearOff")
}

// Apply executes a single move, dispatching on its type. It reports false
// for the zero move.
func (s *State) Apply(m SingleMove) bool {
	switch m.Type {
	case MoveNormal:
		s.MoveStone(m.From, m.To, m.Player)
	case MoveHit:
		s.HitStone(m.From, m.To, m.Player)
	case MoveBearOff:
		s.BearOff(m.From, m.Player)
	default:
		return false
	}
	return true
}

// Undo reverses a previously applied move. Moves must be undone in strict
// reverse application order; undoing out of order corrupts the state.
func (s *State) Undo(m SingleMove) {
	switch m.Type {
	case MoveNormal:
		s.UndoStoneMove(m.From, m.To, m.Player)
	case MoveHit:
		s.UndoHitStone(m.From, m.To, m.Player)
	case MoveBearOff:
		s.UndoBearOff(m.From, m.Player)
	}
}

// ---- Serialization ----

// PositionList serializes the board as, per player, the occupied points
// with counts, point -1 meaning borne off. Round-trips exactly through
// NewStateFromList.
func (s *State) PositionList() PositionList {
	var positions PositionList
	for point, stones := range s.board {
		switch {
		case stones < 0:
			positions[0] = append(positions[0], PointCount{point, int(-stones)})
		case stones > 0:
			positions[1] = append(positions[1], PointCount{point, int(stones)})
		}
	}
	for player := 0; player < 2; player++ {
		if s.borneOff[player] > 0 {
			positions[player] = append(positions[player], PointCount{-1, int(s.borneOff[player])})
		}
	}
	return positions
}

// RecomputeHash computes the Zobrist hash from scratch. The incrementally
// maintained hash must always equal this.
func (s *State) RecomputeHash() uint64 {
	var h uint64
	for point := 0; point < NumPoints; point++ {
		for player := 0; player < 2; player++ {
			if n := s.NumStones(point, player); n > 0 {
				h ^= pointKeys[point][player][n]
			}
		}
	}
	for player := 0; player < 2; player++ {
		h ^= offKeys[player][s.borneOff[player]]
	}
	h ^= turnKeys[s.turn]
	return h
}

// Equal reports whether two states describe the same position.
func (s *State) Equal(o *State) bool {
	return s.board == o.board && s.borneOff == o.borneOff && s.turn == o.turn
}

// ---- Invariant checks ----

func (s *State) assert(where string) {
	if !s.debug {
		return
	}
	s.CheckInvariants(where)
}

// CheckInvariants validates stone totals, mask consistency and the hash
// against from-scratch recomputations, panicking on the first mismatch.
func (s *State) CheckInvariants(where string) {
	for player := 0; player < 2; player++ {
		onBoard := 0
		for point := BoardStart; point <= BoardEnd; point++ {
			onBoard += s.NumStones(point, player)
		}
		bar := s.NumStones(BarPoint[player], player)
		total := onBoard + bar + int(s.borneOff[player])
		if total != StonesPerPlayer {
			panic(fmt.Sprintf("game: stone count desync at %s: player %d has %d/%d (board=%d bar=%d off=%d)",
				where, player, total, StonesPerPlayer, onBoard, bar, s.borneOff[player]))
		}
	}

	check := s.Copy()
	check.recomputeMasks()
	for player := 0; player < 2; player++ {
		if s.occ[player] != check.occ[player] {
			panic(fmt.Sprintf("game: occupancy mask desync at %s: player %d has %b, want %b",
				where, player, s.occ[player], check.occ[player]))
		}
		if s.blocked[player] != check.blocked[player] {
			panic(fmt.Sprintf("game: blocked mask desync at %s: player %d has %b, want %b",
				where, player, s.blocked[player], check.blocked[player]))
		}
	}

	if want := s.RecomputeHash(); s.hash != want {
		panic(fmt.Sprintf("game: hash desync at %s: have %016x, want %016x", where, s.hash, want))
	}
}
