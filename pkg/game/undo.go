package game

import "errors"

// ErrNothingToUndo is returned when no move and no snapshot is recorded.
var ErrNothingToUndo = errors.New("game: nothing to undo")

const (
	defaultMaxMoves     = 100
	defaultMaxSnapshots = 10
)

// UndoManager keeps two bounded histories: a ring of atomic moves for
// single-step rollback and a stack of full state snapshots for bulk
// rollback. When the move log is empty, undo falls back to the most recent
// snapshot.
type UndoManager struct {
	moves        []SingleMove
	maxMoves     int
	snapshots    []*State
	maxSnapshots int
}

// NewUndoManager returns a manager with the given bounds; non-positive
// bounds fall back to defaults.
func NewUndoManager(maxMoves, maxSnapshots int) *UndoManager {
	if maxMoves <= 0 {
		maxMoves = defaultMaxMoves
	}
	if maxSnapshots <= 0 {
		maxSnapshots = defaultMaxSnapshots
	}
	return &UndoManager{
		maxMoves:     maxMoves,
		maxSnapshots: maxSnapshots,
	}
}

// RecordMove appends a move to the log, dropping the oldest entry when the
// bound is reached.
func (u *UndoManager) RecordMove(m SingleMove) {
	if len(u.moves) == u.maxMoves {
		copy(u.moves, u.moves[1:])
		u.moves = u.moves[:len(u.moves)-1]
	}
	u.moves = append(u.moves, m)
}

// RecordSnapshot pushes a full copy of the state, dropping the oldest
// snapshot when the bound is reached.
func (u *UndoManager) RecordSnapshot(s *State) {
	if len(u.snapshots) == u.maxSnapshots {
		copy(u.snapshots, u.snapshots[1:])
		u.snapshots = u.snapshots[:len(u.snapshots)-1]
	}
	u.snapshots = append(u.snapshots, s.Copy())
}

// UndoLastMove pops and inverts the most recent atomic move. With an empty
// move log it restores the most recent snapshot instead and returns the
// zero move. It fails explicitly when nothing is available.
func (u *UndoManager) UndoLastMove(s *State) (SingleMove, error) {
	if n := len(u.moves); n > 0 {
		m := u.moves[n-1]
		u.moves = u.moves[:n-1]
		s.Undo(m)
		return m, nil
	}
	if len(u.snapshots) > 0 {
		return SingleMove{}, u.UndoLastSnapshot(s)
	}
	return SingleMove{}, ErrNothingToUndo
}

// UndoLastSnapshot replaces the state wholesale with the most recent
// snapshot: board, borne-off counters, masks and turn.
func (u *UndoManager) UndoLastSnapshot(s *State) error {
	n := len(u.snapshots)
	if n == 0 {
		return ErrNothingToUndo
	}
	snap := u.snapshots[n-1]
	u.snapshots = u.snapshots[:n-1]

	s.board = snap.board
	s.borneOff = snap.borneOff
	s.occ = snap.occ
	s.blocked = snap.blocked
	s.turn = snap.turn
	s.recomputeMasks()
	s.hash = s.RecomputeHash()
	s.assert("UndoLastSnapshot")
	return nil
}
