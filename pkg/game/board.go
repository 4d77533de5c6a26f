// Package game implements the backgammon board model: point geometry,
// mutable game state with incremental Zobrist hashing, the rules engine,
// exhaustive turn-move generation and undo management.
package game

import "github.com/yourusername/gammon/internal/bitmask"

// Board geometry. Points 1-24 are the playable board; 0 and 25 are virtual
// anchors used for the bar and bear-off only, never for regular stones.
const (
	BoardStart = 1
	BoardEnd   = 24

	// NumPoints is the size of the board array including both anchors.
	NumPoints = 26

	// StonesPerPlayer is the full stone count each side starts with.
	StonesPerPlayer = 15
)

// BarPoint is the bar anchor per player: player 0 re-enters from 25,
// player 1 from 0.
var BarPoint = [2]int{25, 0}

// BearOffAnchor is the bear-off target per player. It mirrors each player's
// movement direction: player 0 moves down toward 0, player 1 up toward 25.
var BearOffAnchor = [2]int{0, 25}

// Home board ranges: player 0 owns points 1-6, player 1 owns 19-24.
var (
	HomeStart = [2]int{1, 19}
	HomeEnd   = [2]int{6, 24}
)

// Direction is the per-player movement direction along the point axis.
var Direction = [2]int{-1, 1}

// StoneSign encodes stone ownership in the board array: negative counts
// belong to player 0, positive to player 1.
var StoneSign = [2]int8{-1, 1}

// FullBoardMask covers all playable points.
var FullBoardMask = bitmask.Range(BoardStart, BoardEnd)

// HomeMask covers each player's home board.
var HomeMask = [2]bitmask.Mask{
	bitmask.Range(HomeStart[0], HomeEnd[0]),
	bitmask.Range(HomeStart[1], HomeEnd[1]),
}

// OutsideHomeMask is the playable board minus the player's home board.
var OutsideHomeMask = [2]bitmask.Mask{
	HomeMask[0] ^ FullBoardMask,
	HomeMask[1] ^ FullBoardMask,
}

// PointCount is one entry of a serialized position: Count stones on Point.
// Point -1 means borne off.
type PointCount struct {
	Point int `json:"point"`
	Count int `json:"count"`
}

// PositionList is the only exchanged board representation: per player, the
// list of occupied points with stone counts.
type PositionList [2][]PointCount

// StartingPosition returns the standard backgammon starting layout.
func StartingPosition() PositionList {
	return PositionList{
		{{24, 2}, {13, 5}, {8, 3}, {6, 5}},
		{{1, 2}, {12, 5}, {17, 3}, {19, 5}},
	}
}

// IsOnBoard reports whether point is a playable board point.
func IsOnBoard(point int) bool {
	return point >= BoardStart && point <= BoardEnd
}
