package game

import (
	"testing"
)

func TestSingleMovesOpening(t *testing.T) {
	s := NewState()

	moves := SingleMoves(s, 3)
	// 24->21, 13->10, 8->5, 6->3 are all open.
	if len(moves) != 4 {
		t.Errorf("got %d single moves for die 3, want 4: %v", len(moves), moves)
	}
	for _, m := range moves {
		if m.Type != MoveNormal {
			t.Errorf("move %v should be NORMAL in the opening", m)
		}
		if m.From-m.To != 3 {
			t.Errorf("move %v does not travel 3 pips", m)
		}
	}
}

func TestSingleMovesBarEntry(t *testing.T) {
	// Player 0 on the bar; die 3 enters on 22, die 6 is blocked on 19.
	s := mustState(t, PositionList{
		{{Point: BarPoint[0], Count: 1}, {Point: 6, Count: 14}},
		{{Point: 19, Count: 2}, {Point: 12, Count: 13}},
	}, 0)

	moves := SingleMoves(s, 3)
	if len(moves) != 1 || moves[0].From != BarPoint[0] || moves[0].To != 22 {
		t.Errorf("die 3 entry = %v, want single move bar->22", moves)
	}

	if moves := SingleMoves(s, 6); len(moves) != 0 {
		t.Errorf("die 6 entry = %v, want none (19 blocked)", moves)
	}
}

func TestSingleMovesHit(t *testing.T) {
	s := mustState(t, PositionList{
		{{Point: 6, Count: 15}},
		{{Point: 3, Count: 1}, {Point: 19, Count: 14}},
	}, 0)

	moves := SingleMoves(s, 3)
	if len(moves) != 1 {
		t.Fatalf("got %d moves, want 1: %v", len(moves), moves)
	}
	if moves[0].Type != MoveHit {
		t.Errorf("move onto a blot = %s, want HIT", moves[0].Type)
	}
}

func TestSingleMovesBearOff(t *testing.T) {
	s := mustState(t, PositionList{
		{{Point: 6, Count: 1}, {Point: 5, Count: 1}, {Point: 4, Count: 1}, {Point: -1, Count: 12}},
		{{Point: 19, Count: 15}},
	}, 0)

	moves := SingleMoves(s, 6)
	// Exact bear-off from 6 only; overshoot from 5 and 4 is blocked by the
	// stone behind.
	bearOffs := 0
	for _, m := range moves {
		if m.Type == MoveBearOff {
			bearOffs++
			if m.From != 6 {
				t.Errorf("bear-off from %d, want 6 only", m.From)
			}
		}
	}
	if bearOffs != 1 {
		t.Errorf("got %d bear-offs for die 6, want 1: %v", bearOffs, moves)
	}
}

func TestGenerateLegalMovesUsesBothDice(t *testing.T) {
	s := NewState()
	moves := GenerateLegalMoves(s, []int{3, 1})

	if len(moves) == 0 {
		t.Fatal("expected legal moves for opening 3-1")
	}
	for _, tm := range moves {
		if len(tm) != 2 {
			t.Errorf("sequence %v has %d moves, want 2", tm, len(tm))
		}
	}
	t.Logf("generated %d sequences for 3-1", len(moves))
}

func TestGenerateLegalMovesDoubles(t *testing.T) {
	s := NewState()
	moves := GenerateLegalMoves(s, []int{6, 6})

	if len(moves) == 0 {
		t.Fatal("expected legal moves for opening 6-6")
	}
	for _, tm := range moves {
		if len(tm) != 4 {
			t.Errorf("sequence %v has %d moves, want 4 for doubles", tm, len(tm))
		}
		for _, m := range tm {
			if m.Die != 6 {
				t.Errorf("move %v uses die %d, want 6", m, m.Die)
			}
		}
	}
}

func TestGenerateLegalMovesNoDuplicates(t *testing.T) {
	s := NewState()
	moves := GenerateLegalMoves(s, []int{4, 4})

	seen := make(map[string]bool, len(moves))
	for _, tm := range moves {
		key := tm.String()
		if seen[key] {
			t.Errorf("duplicate sequence %s", key)
		}
		seen[key] = true
	}
}

func TestGenerateLegalMovesForcedHigherDie(t *testing.T) {
	// One mobile stone on 24 and a wall on 13: either die plays alone but
	// they cannot combine, so only the 6 survives.
	s := mustState(t, PositionList{
		{{Point: 24, Count: 1}, {Point: 3, Count: 14}},
		{{Point: 13, Count: 2}, {Point: 12, Count: 13}},
	}, 0)

	moves := GenerateLegalMoves(s, []int{6, 5})
	if len(moves) != 1 {
		t.Fatalf("got %d sequences, want 1: %v", len(moves), moves)
	}
	tm := moves[0]
	if len(tm) != 1 || tm[0].Die != 6 || tm[0].To != 18 {
		t.Errorf("forced move = %v, want 24->18 with die 6", tm)
	}
}

func TestGenerateLegalMovesFullyBlocked(t *testing.T) {
	// Player 0 on the bar with every entry point blocked: a dance.
	blocked := PositionList{
		{{Point: BarPoint[0], Count: 1}, {Point: 6, Count: 14}},
		{},
	}
	for p := 19; p <= 24; p++ {
		blocked[1] = append(blocked[1], PointCount{Point: p, Count: 2})
	}
	blocked[1] = append(blocked[1], PointCount{Point: 12, Count: 3})

	s := mustState(t, blocked, 0)
	if moves := GenerateLegalMoves(s, []int{6, 3}); len(moves) != 0 {
		t.Errorf("got %d sequences on a closed board, want 0", len(moves))
	}
}

func TestGenerateLegalMovesRestoresState(t *testing.T) {
	s := NewState()
	before := s.Copy()

	GenerateLegalMoves(s, []int{6, 5})
	GenerateLegalMoves(s, []int{2, 2})

	if !s.Equal(before) || s.Hash() != before.Hash() {
		t.Error("generator left the state modified")
	}
}
