package game

// Zobrist keys for incremental position hashing. Every stone-count
// transition at a point XORs out the key for the old count and XORs in the
// key for the new count; the key for count zero is zero, so the incremental
// hash always equals a from-scratch recomputation that skips empty slots.
var (
	// pointKeys[point][player][count], count 0-15.
	pointKeys [NumPoints][2][StonesPerPlayer + 1]uint64

	// offKeys[player][count] covers the borne-off counters.
	offKeys [2][StonesPerPlayer + 1]uint64

	// turnKeys[player] marks whose turn it is.
	turnKeys [2]uint64
)

// splitmix64 is the generator used to fill the key tables. A fixed seed
// keeps hashes stable across processes, which the transposition memo and
// the tests rely on.
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func init() {
	rng := splitmix64{state: 0x6261636b67616d6d} // "backgamm"
	for point := 0; point < NumPoints; point++ {
		for player := 0; player < 2; player++ {
			for count := 1; count <= StonesPerPlayer; count++ {
				pointKeys[point][player][count] = rng.next()
			}
		}
	}
	for player := 0; player < 2; player++ {
		for count := 1; count <= StonesPerPlayer; count++ {
			offKeys[player][count] = rng.next()
		}
	}
	turnKeys[0] = rng.next()
	turnKeys[1] = rng.next()
}
