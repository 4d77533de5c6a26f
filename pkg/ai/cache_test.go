package ai

import (
	"sync"
	"testing"
)

func TestScoreCacheAddLookup(t *testing.T) {
	c := NewScoreCache(64)

	if _, _, ok := c.Lookup(123, 0); ok {
		t.Fatal("empty cache reported a hit")
	}

	_, slot, _ := c.Lookup(123, 0)
	c.Add(123, 0, 0.25, slot)

	score, _, ok := c.Lookup(123, 0)
	if !ok || score != 0.25 {
		t.Errorf("Lookup = (%v, %v), want (0.25, true)", score, ok)
	}
}

func TestScoreCacheContextSeparation(t *testing.T) {
	c := NewScoreCache(64)

	_, slot, _ := c.Lookup(123, 0)
	c.Add(123, 0, 0.25, slot)

	// Same key, different context: must miss.
	if _, _, ok := c.Lookup(123, 1); ok {
		t.Error("context 1 hit on a context-0 entry")
	}
}

func TestScoreCacheTwoWayAssociative(t *testing.T) {
	c := NewScoreCache(2) // one node: primary plus secondary

	_, slot1, _ := c.Lookup(1, 0)
	c.Add(1, 0, 0.1, slot1)
	_, slot2, _ := c.Lookup(2, 0)
	c.Add(2, 0, 0.2, slot2)

	// With only one node, both entries share it: the first add was demoted
	// to secondary and must still resolve.
	if score, _, ok := c.Lookup(2, 0); !ok || score != 0.2 {
		t.Errorf("primary entry = (%v, %v), want (0.2, true)", score, ok)
	}
	if score, _, ok := c.Lookup(1, 0); !ok || score != 0.1 {
		t.Errorf("secondary entry = (%v, %v), want (0.1, true)", score, ok)
	}
}

func TestScoreCacheAddAfterHitIsNoop(t *testing.T) {
	c := NewScoreCache(64)

	_, slot, _ := c.Lookup(5, 0)
	c.Add(5, 0, 0.5, slot)

	_, hitSlot, ok := c.Lookup(5, 0)
	if !ok {
		t.Fatal("expected a hit")
	}
	c.Add(5, 0, 0.9, hitSlot)

	if score, _, _ := c.Lookup(5, 0); score != 0.5 {
		t.Errorf("score = %v after no-op add, want 0.5", score)
	}
}

func TestScoreCacheFlush(t *testing.T) {
	c := NewScoreCache(64)

	_, slot, _ := c.Lookup(7, 0)
	c.Add(7, 0, 0.7, slot)
	c.Flush()

	if _, _, ok := c.Lookup(7, 0); ok {
		t.Error("hit after Flush")
	}
	if lookups, hits, adds := c.Stats(); lookups != 1 || hits != 0 || adds != 0 {
		t.Errorf("stats after Flush = %d/%d/%d, want 1/0/0", lookups, hits, adds)
	}
}

func TestScoreCacheHitRate(t *testing.T) {
	c := NewScoreCache(64)
	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate on empty cache = %v, want 0", got)
	}

	_, slot, _ := c.Lookup(9, 0)
	c.Add(9, 0, 0.9, slot)
	c.Lookup(9, 0)

	// One miss, one hit.
	if got := c.HitRate(); got != 50 {
		t.Errorf("HitRate = %v, want 50", got)
	}
}

func TestScoreCacheConcurrent(t *testing.T) {
	c := NewScoreCache(256)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := uint64(i % 32)
				if score, slot, ok := c.Lookup(key, int32(g%2)); ok {
					if score != float64(key) {
						t.Errorf("corrupted entry: key %d scored %v", key, score)
					}
				} else {
					c.Add(key, int32(g%2), float64(key), slot)
				}
			}
		}(g)
	}
	wg.Wait()
}
