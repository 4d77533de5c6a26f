package game

import (
	"errors"
	"testing"
)

func TestUndoLastMove(t *testing.T) {
	s := NewState()
	before := s.Copy()
	undo := NewUndoManager(0, 0)

	m := SingleMove{Player: 0, From: 13, To: 8, Type: MoveNormal, Die: 5}
	s.Apply(m)
	undo.RecordMove(m)

	got, err := undo.UndoLastMove(s)
	if err != nil {
		t.Fatalf("UndoLastMove: %v", err)
	}
	if got != m {
		t.Errorf("undone move = %v, want %v", got, m)
	}
	if !s.Equal(before) || s.Hash() != before.Hash() {
		t.Error("state not restored after undo")
	}
}

func TestUndoLastMoveEmpty(t *testing.T) {
	s := NewState()
	undo := NewUndoManager(0, 0)

	if _, err := undo.UndoLastMove(s); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
}

func TestUndoFallsBackToSnapshot(t *testing.T) {
	s := NewState()
	undo := NewUndoManager(0, 0)
	undo.RecordSnapshot(s)
	snapshot := s.Copy()

	// Mutate without recording individual moves.
	s.Apply(SingleMove{Player: 0, From: 13, To: 8, Type: MoveNormal, Die: 5})
	s.SwitchTurn()

	m, err := undo.UndoLastMove(s)
	if err != nil {
		t.Fatalf("UndoLastMove: %v", err)
	}
	if m != (SingleMove{}) {
		t.Errorf("snapshot fallback returned move %v, want zero move", m)
	}
	if !s.Equal(snapshot) {
		t.Error("state not restored from snapshot")
	}
	if s.Hash() != snapshot.Hash() {
		t.Errorf("hash = %016x after snapshot restore, want %016x", s.Hash(), snapshot.Hash())
	}
}

func TestUndoLastSnapshotRestoresTurn(t *testing.T) {
	s := NewState()
	undo := NewUndoManager(0, 0)
	undo.RecordSnapshot(s)

	s.SwitchTurn()
	if err := undo.UndoLastSnapshot(s); err != nil {
		t.Fatalf("UndoLastSnapshot: %v", err)
	}
	if s.Turn() != 0 {
		t.Errorf("Turn = %d after restore, want 0", s.Turn())
	}
}

func TestUndoMoveLogBounded(t *testing.T) {
	s := NewState()
	undo := NewUndoManager(2, 1)

	moves := []SingleMove{
		{Player: 0, From: 13, To: 8, Type: MoveNormal, Die: 5},
		{Player: 0, From: 13, To: 10, Type: MoveNormal, Die: 3},
		{Player: 0, From: 24, To: 23, Type: MoveNormal, Die: 1},
	}
	for _, m := range moves {
		s.Apply(m)
		undo.RecordMove(m)
	}

	// Capacity 2: the oldest move fell off; only the last two undo.
	for i := len(moves) - 1; i >= 1; i-- {
		m, err := undo.UndoLastMove(s)
		if err != nil {
			t.Fatalf("UndoLastMove: %v", err)
		}
		if m != moves[i] {
			t.Errorf("undone %v, want %v", m, moves[i])
		}
	}
	if _, err := undo.UndoLastMove(s); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo after draining the bounded log", err)
	}
}

func TestUndoSnapshotStackBounded(t *testing.T) {
	s := NewState()
	undo := NewUndoManager(1, 2)

	undo.RecordSnapshot(s) // dropped once the bound is hit
	s.Apply(SingleMove{Player: 0, From: 13, To: 8, Type: MoveNormal, Die: 5})
	undo.RecordSnapshot(s)
	second := s.Copy()
	s.Apply(SingleMove{Player: 0, From: 24, To: 18, Type: MoveNormal, Die: 6})
	undo.RecordSnapshot(s)
	third := s.Copy()

	s.Apply(SingleMove{Player: 0, From: 8, To: 2, Type: MoveNormal, Die: 6})

	if err := undo.UndoLastSnapshot(s); err != nil {
		t.Fatalf("UndoLastSnapshot: %v", err)
	}
	if !s.Equal(third) {
		t.Error("first restore should yield the most recent snapshot")
	}
	if err := undo.UndoLastSnapshot(s); err != nil {
		t.Fatalf("UndoLastSnapshot: %v", err)
	}
	if !s.Equal(second) {
		t.Error("second restore should yield the middle snapshot")
	}
	if err := undo.UndoLastSnapshot(s); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo (oldest snapshot was dropped)", err)
	}
}
