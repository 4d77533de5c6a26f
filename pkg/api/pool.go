package api

import (
	"context"
	"sync/atomic"
)

// WorkerPool bounds concurrent request handling with two semaphores:
// a large one for fast requests (move listing, evaluation) and a small
// one for slow requests (search, rollout) so a burst of heavy searches
// cannot starve the cheap endpoints.
type WorkerPool struct {
	fastSem chan struct{}
	slowSem chan struct{}

	fastActive int64
	slowActive int64
	fastTotal  int64
	slowTotal  int64
	rejected   int64
}

// PoolStats is a snapshot of pool activity.
type PoolStats struct {
	FastActive   int64 `json:"fast_active"`
	SlowActive   int64 `json:"slow_active"`
	FastTotal    int64 `json:"fast_total"`
	SlowTotal    int64 `json:"slow_total"`
	Rejected     int64 `json:"rejected"`
	FastCapacity int   `json:"fast_capacity"`
	SlowCapacity int   `json:"slow_capacity"`
}

// NewWorkerPool creates a pool with the given capacities. Non-positive
// capacities fall back to sensible defaults.
func NewWorkerPool(fastWorkers, slowWorkers int) *WorkerPool {
	if fastWorkers <= 0 {
		fastWorkers = 100
	}
	if slowWorkers <= 0 {
		slowWorkers = 4
	}
	return &WorkerPool{
		fastSem: make(chan struct{}, fastWorkers),
		slowSem: make(chan struct{}, slowWorkers),
	}
}

// AcquireFast claims a fast slot, blocking until one is free or the
// context is cancelled.
func (p *WorkerPool) AcquireFast(ctx context.Context) error {
	select {
	case p.fastSem <- struct{}{}:
		atomic.AddInt64(&p.fastActive, 1)
		atomic.AddInt64(&p.fastTotal, 1)
		return nil
	case <-ctx.Done():
		atomic.AddInt64(&p.rejected, 1)
		return ctx.Err()
	}
}

// ReleaseFast returns a fast slot.
func (p *WorkerPool) ReleaseFast() {
	atomic.AddInt64(&p.fastActive, -1)
	<-p.fastSem
}

// AcquireSlow claims a slow slot, blocking until one is free or the
// context is cancelled.
func (p *WorkerPool) AcquireSlow(ctx context.Context) error {
	select {
	case p.slowSem <- struct{}{}:
		atomic.AddInt64(&p.slowActive, 1)
		atomic.AddInt64(&p.slowTotal, 1)
		return nil
	case <-ctx.Done():
		atomic.AddInt64(&p.rejected, 1)
		return ctx.Err()
	}
}

// ReleaseSlow returns a slow slot.
func (p *WorkerPool) ReleaseSlow() {
	atomic.AddInt64(&p.slowActive, -1)
	<-p.slowSem
}

// Stats returns a snapshot of pool counters.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		FastActive:   atomic.LoadInt64(&p.fastActive),
		SlowActive:   atomic.LoadInt64(&p.slowActive),
		FastTotal:    atomic.LoadInt64(&p.fastTotal),
		SlowTotal:    atomic.LoadInt64(&p.slowTotal),
		Rejected:     atomic.LoadInt64(&p.rejected),
		FastCapacity: cap(p.fastSem),
		SlowCapacity: cap(p.slowSem),
	}
}
