// Package ai implements the decision side of the engine: weighted heuristic
// valuation, UCB1-guided Monte-Carlo move selection and parallel win-rate
// rollouts.
package ai

import (
	"sync"
	"sync/atomic"
)

// DefaultCacheSize is the default number of score cache entries.
const DefaultCacheSize = 1 << 16

const cacheHit = ^uint32(0)

// scoreEntry stores one cached valuation keyed by position hash and the
// player the position was evaluated for.
type scoreEntry struct {
	key   uint64
	ctx   int32
	score float64
	valid bool
}

// cacheNode holds primary and secondary entries for the two-way associative
// cache.
type cacheNode struct {
	primary   scoreEntry
	secondary scoreEntry
}

// ScoreCache is a thread-safe, bounded valuation cache. It is two-way
// associative with MurmurHash3-based slot indexing, so stale entries are
// evicted in place and memory stays fixed for the cache's lifetime.
type ScoreCache struct {
	entries  []cacheNode
	hashMask uint32

	// statistics counters, updated atomically so read locks stay shared
	lookups atomic.Uint64
	hits    atomic.Uint64
	adds    atomic.Uint64

	mu sync.RWMutex
}

// NewScoreCache creates a cache with at least size entries, rounded up to a
// power of two.
func NewScoreCache(size uint32) *ScoreCache {
	if size < 2 {
		size = 2
	}
	p := uint32(1)
	for p < size {
		p <<= 1
	}
	return &ScoreCache{
		entries:  make([]cacheNode, p/2),
		hashMask: (p / 2) - 1,
	}
}

// Flush clears all entries and statistics.
func (c *ScoreCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		c.entries[i] = cacheNode{}
	}
	c.lookups.Store(0)
	c.hits.Store(0)
	c.adds.Store(0)
}

// slot computes the cache slot with MurmurHash3-style mixing of the
// position hash and the evaluation context.
func (c *ScoreCache) slot(key uint64, ctx int32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(0)
	for _, k := range [3]uint32{uint32(key), uint32(key >> 32), uint32(ctx)} {
		k *= c1
		k = (k << 15) | (k >> 17)
		k *= c2

		h ^= k
		h = (h << 13) | (h >> 19)
		h = h*5 + 0xe6546b64
	}

	h ^= 12
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.hashMask
}

// Lookup returns the cached score for (key, ctx) if present. On a miss the
// returned slot is passed back to Add.
func (c *ScoreCache) Lookup(key uint64, ctx int32) (float64, uint32, bool) {
	slot := c.slot(key, ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()

	c.lookups.Add(1)
	node := &c.entries[slot]

	if node.primary.valid && node.primary.key == key && node.primary.ctx == ctx {
		c.hits.Add(1)
		return node.primary.score, cacheHit, true
	}
	if node.secondary.valid && node.secondary.key == key && node.secondary.ctx == ctx {
		c.hits.Add(1)
		return node.secondary.score, cacheHit, true
	}
	return 0, slot, false
}

// Add stores a score in the slot returned by a previous Lookup miss,
// demoting the current primary entry to secondary.
func (c *ScoreCache) Add(key uint64, ctx int32, score float64, slot uint32) {
	if slot == cacheHit {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]
	node.secondary = node.primary
	node.primary = scoreEntry{key: key, ctx: ctx, score: score, valid: true}
	c.adds.Add(1)
}

// Stats returns lookup, hit and add counts.
func (c *ScoreCache) Stats() (lookups, hits, adds uint64) {
	return c.lookups.Load(), c.hits.Load(), c.adds.Load()
}

// HitRate returns the hit rate as a percentage.
func (c *ScoreCache) HitRate() float64 {
	lookups := c.lookups.Load()
	if lookups == 0 {
		return 0
	}
	return float64(c.hits.Load()) / float64(lookups) * 100
}
