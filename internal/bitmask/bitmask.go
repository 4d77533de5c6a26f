// Package bitmask implements single-word bitmask algebra over board point
// indices. Bit i corresponds to point index i, so masks cover the playable
// points 1-24 plus the two off-board anchors 0 and 25.
package bitmask

import "math/bits"

// Mask is a set of board point indices packed into one word.
type Mask uint32

// FromIndices builds a mask with the given point indices set.
func FromIndices(indices []int) Mask {
	var m Mask
	for _, i := range indices {
		m |= 1 << uint(i)
	}
	return m
}

// Indices returns the set point indices in ascending order.
func (m Mask) Indices() []int {
	idxs := make([]int, 0, bits.OnesCount32(uint32(m)))
	for v := uint32(m); v != 0; v &= v - 1 {
		idxs = append(idxs, bits.TrailingZeros32(v))
	}
	return idxs
}

// Set returns m with the bit for point idx set.
func (m Mask) Set(idx int) Mask {
	return m | 1<<uint(idx)
}

// Clear returns m with the bit for point idx cleared.
func (m Mask) Clear(idx int) Mask {
	return m &^ (1 << uint(idx))
}

// IsSet reports whether the bit for point idx is set.
func (m Mask) IsSet(idx int) bool {
	return m&(1<<uint(idx)) != 0
}

// Range returns a mask with all bits from start through end set, inclusive.
func Range(start, end int) Mask {
	return Mask((1<<uint(end+1))-1) &^ Mask((1<<uint(start))-1)
}

// Shift moves all set bits by steps points. Positive steps shift toward
// higher point indices, negative toward lower.
func (m Mask) Shift(steps int) Mask {
	if steps >= 0 {
		return m << uint(steps)
	}
	return m >> uint(-steps)
}

// Remove returns m with every bit of remove cleared.
func (m Mask) Remove(remove Mask) Mask {
	return m &^ remove
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// IntersectionCount returns the number of bits set in both masks.
func IntersectionCount(a, b Mask) int {
	return bits.OnesCount32(uint32(a & b))
}
