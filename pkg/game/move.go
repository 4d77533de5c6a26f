package game

import (
	"fmt"
	"strings"
)

// MoveType classifies a single atomic move.
type MoveType int

const (
	MoveNormal MoveType = iota + 1
	MoveHit
	MoveBearOff
)

// String returns the move type name.
func (t MoveType) String() string {
	switch t {
	case MoveNormal:
		return "NORMAL"
	case MoveHit:
		return "HIT"
	case MoveBearOff:
		return "BEAR_OFF"
	}
	return fmt.Sprintf("MoveType(%d)", int(t))
}

// SingleMove is one atomic stone move. It is a plain value type: two moves
// are the same move iff all fields are equal, so it can key maps directly.
type SingleMove struct {
	Player int
	From   int
	To     int
	Type   MoveType
	Die    int
}

// String formats the move as "from > to (die, type)".
func (m SingleMove) String() string {
	return fmt.Sprintf("%2d > %2d (%d, %s)", m.From, m.To, m.Die, m.Type)
}

// TurnMove is the ordered sequence of atomic moves played with one dice
// roll, up to four entries for doubles.
type TurnMove []SingleMove

// Equal reports whether two turn moves are the same sequence.
func (t TurnMove) Equal(o TurnMove) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// String joins the single moves with " | ".
func (t TurnMove) String() string {
	parts := make([]string, len(t))
	for i, m := range t {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// MoveTree groups turn-move sequences by shared prefix so a consumer can
// pick one single move at a time.
type MoveTree struct {
	children map[SingleMove]*MoveTree
	order    []SingleMove
}

// NewMoveTree builds a tree from the given turn moves.
func NewMoveTree(turnMoves []TurnMove) *MoveTree {
	seqs := make([][]SingleMove, len(turnMoves))
	for i, tm := range turnMoves {
		seqs[i] = tm
	}
	return buildMoveTree(seqs)
}

func buildMoveTree(sequences [][]SingleMove) *MoveTree {
	tree := &MoveTree{children: make(map[SingleMove]*MoveTree)}
	if len(sequences) == 0 || len(sequences[0]) == 0 {
		return tree
	}

	remaining := make(map[SingleMove][][]SingleMove)
	for _, seq := range sequences {
		head := seq[0]
		if _, seen := remaining[head]; !seen {
			tree.order = append(tree.order, head)
		}
		remaining[head] = append(remaining[head], seq[1:])
	}
	for _, head := range tree.order {
		tree.children[head] = buildMoveTree(remaining[head])
	}
	return tree
}

// Options returns the next single-move choices at this node, in first-seen
// order.
func (t *MoveTree) Options() []SingleMove {
	out := make([]SingleMove, len(t.order))
	copy(out, t.order)
	return out
}

// Child returns the subtree reached by playing m, or nil if m is not an
// option here.
func (t *MoveTree) Child(m SingleMove) *MoveTree {
	return t.children[m]
}

// Leaf reports whether no further choices remain below this node.
func (t *MoveTree) Leaf() bool {
	return len(t.children) == 0
}

// Paths returns every root-to-leaf sequence in the tree.
func (t *MoveTree) Paths() []TurnMove {
	var out []TurnMove
	t.walk(nil, func(path TurnMove, _ []SingleMove) {
		out = append(out, path)
	}, true)
	return out
}

// Walk visits the tree stepwise. For every node it calls fn with the path
// taken so far and the next options (empty at a leaf).
func (t *MoveTree) Walk(fn func(path TurnMove, options []SingleMove)) {
	t.walk(nil, fn, false)
}

func (t *MoveTree) walk(path TurnMove, fn func(TurnMove, []SingleMove), leavesOnly bool) {
	if t.Leaf() {
		p := make(TurnMove, len(path))
		copy(p, path)
		fn(p, nil)
		return
	}
	if !leavesOnly {
		p := make(TurnMove, len(path))
		copy(p, path)
		fn(p, t.Options())
	}
	for _, m := range t.order {
		t.children[m].walk(append(path, m), fn, leavesOnly)
	}
}
