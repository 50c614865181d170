package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrQueueFull is returned by Submit when every queue slot is taken.
	ErrQueueFull = errors.New("job queue is full")
	// ErrPoolClosed is returned by Submit after Shutdown started.
	ErrPoolClosed = errors.New("worker pool is closed")
)

// JobRunner executes a single job.
type JobRunner interface {
	Run(ctx context.Context, id uuid.UUID)
}

// PoolStats is a point-in-time view of the pool.
type PoolStats struct {
	Workers   int   `json:"workers"`
	Capacity  int   `json:"capacity"`
	Queued    int   `json:"queued"`
	InFlight  int64 `json:"in_flight"`
	Processed int64 `json:"processed"`
}

// Pool runs jobs on a fixed set of workers fed by a bounded queue. Each job
// id is handled by exactly one worker.
type Pool struct {
	runner  JobRunner
	workers int
	queue   chan uuid.UUID

	mu     sync.RWMutex
	closed bool

	inFlight  atomic.Int64
	processed atomic.Int64
	done      chan struct{}
}

// NewPool starts workers goroutines. Jobs run on a context detached from
// ctx's cancellation so a crew call is never cut off mid-flight.
func NewPool(ctx context.Context, runner JobRunner, workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	p := &Pool{
		runner:  runner,
		workers: workers,
		queue:   make(chan uuid.UUID, queueSize),
		done:    make(chan struct{}),
	}

	runCtx := context.WithoutCancel(ctx)
	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for id := range p.queue {
				p.inFlight.Add(1)
				p.runner.Run(runCtx, id)
				p.inFlight.Add(-1)
				p.processed.Add(1)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(p.done)
	}()

	slog.Info("runner pool started", "workers", workers, "queue_size", queueSize)
	return p
}

// Submit enqueues id without blocking.
func (p *Pool) Submit(id uuid.UUID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:   p.workers,
		Capacity:  cap(p.queue),
		Queued:    len(p.queue),
		InFlight:  p.inFlight.Load(),
		Processed: p.processed.Load(),
	}
}

// Shutdown stops intake and waits for queued and running jobs to finish or
// for ctx to expire, whichever comes first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		slog.Info("runner pool drained", "processed", p.processed.Load())
		return nil
	case <-ctx.Done():
		slog.Warn("runner pool shutdown timed out", "queued", len(p.queue), "in_flight", p.inFlight.Load())
		return ctx.Err()
	}
}
