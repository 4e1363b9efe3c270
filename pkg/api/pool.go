package api

import (
	"context"
	"sync/atomic"
)

// lane is a counting semaphore with usage counters.
type lane struct {
	sem    chan struct{}
	queued atomic.Int64
	active atomic.Int64
	total  atomic.Int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	l.queued.Add(1)
	defer l.queued.Add(-1)

	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	l.active.Add(-1)
	l.total.Add(1)
	<-l.sem
}

// WorkerPool bounds concurrent tree building. Single roll builds and
// all-roll batches have separate limits so batches cannot starve the
// interactive endpoints.
type WorkerPool struct {
	builds  *lane
	batches *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxBuilds  int // Max concurrent single roll builds (default: 100)
	MaxBatches int // Max concurrent all-roll batches (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxBuilds:  100,
		MaxBatches: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxBuilds <= 0 {
		config.MaxBuilds = def.MaxBuilds
	}
	if config.MaxBatches <= 0 {
		config.MaxBatches = def.MaxBatches
	}
	return &WorkerPool{
		builds:  newLane(config.MaxBuilds),
		batches: newLane(config.MaxBatches),
	}
}

// AcquireBuild waits for a single roll build slot.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) AcquireBuild(ctx context.Context) error { return p.builds.acquire(ctx) }

// ReleaseBuild releases a build slot.
func (p *WorkerPool) ReleaseBuild() { p.builds.release() }

// TryAcquireBuild takes a build slot without blocking.
func (p *WorkerPool) TryAcquireBuild() bool { return p.builds.tryAcquire() }

// AcquireBatch waits for an all-roll batch slot.
func (p *WorkerPool) AcquireBatch(ctx context.Context) error { return p.batches.acquire(ctx) }

// ReleaseBatch releases a batch slot.
func (p *WorkerPool) ReleaseBatch() { p.batches.release() }

// TryAcquireBatch takes a batch slot without blocking.
func (p *WorkerPool) TryAcquireBatch() bool { return p.batches.tryAcquire() }

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveBuilds  int64 `json:"active_builds"`
	ActiveBatches int64 `json:"active_batches"`
	QueuedBuilds  int64 `json:"queued_builds"`
	QueuedBatches int64 `json:"queued_batches"`
	TotalBuilds   int64 `json:"total_builds"`
	TotalBatches  int64 `json:"total_batches"`
	MaxBuilds     int   `json:"max_builds"`
	MaxBatches    int   `json:"max_batches"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveBuilds:  p.builds.active.Load(),
		ActiveBatches: p.batches.active.Load(),
		QueuedBuilds:  p.builds.queued.Load(),
		QueuedBatches: p.batches.queued.Load(),
		TotalBuilds:   p.builds.total.Load(),
		TotalBatches:  p.batches.total.Load(),
		MaxBuilds:     cap(p.builds.sem),
		MaxBatches:    cap(p.batches.sem),
	}
}
