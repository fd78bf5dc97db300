// Package worker drains persist jobs into the picklist store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scoutops/internal/domain/model"
	"github.com/okian/scoutops/internal/domain/picklist"
	"github.com/okian/scoutops/pkg/logger"
	"github.com/okian/scoutops/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.PersistJob

// Saver writes a snapshot when its revision is newer than the stored one.
type Saver interface {
	SaveIfNewer(ctx context.Context, key string, revision int64, p picklist.Persisted) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes persist jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker on top of a Queue and a Saver.
type InMemoryWorker struct {
	queue Queue
	saver Saver
	name  string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	written atomic.Int64
	stale   atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		saver:    saver,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "persist job failed",
					logger.String("key", job.Key),
					logger.Any("revision", job.Revision),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker. It is safe to call more than once.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signal()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) signal() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// Written returns how many jobs reached the store.
func (w *InMemoryWorker) Written() int64 { return w.written.Load() }

// Stale returns how many jobs lost to a newer stored revision.
func (w *InMemoryWorker) Stale() int64 { return w.stale.Load() }

func (w *InMemoryWorker) process(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: jobs travel by value
	start := time.Now()
	saved, err := w.saver.SaveIfNewer(ctx, job.Key, job.Revision, job.Picklist)
	metrics.RecordPersistWrite(float64(time.Since(start).Milliseconds()), err)
	if err != nil {
		return fmt.Errorf("save %s@%d: %w", job.Key, job.Revision, err)
	}
	if saved {
		w.written.Add(1)
	} else {
		w.stale.Add(1)
		w.logger.Debug(ctx, "stale persist job skipped",
			logger.String("key", job.Key),
			logger.Any("revision", job.Revision),
		)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. A count below one means one worker per CPU.
func NewPool(workerCount int, q Queue, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, saver, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdatePersistWorkers(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Written sums the successful writes of every worker.
func (p *Pool) Written() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Written()
	}
	return n
}

// Stale sums the writes every worker skipped for a newer stored revision.
func (p *Pool) Stale() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Stale()
	}
	return n
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signal()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdatePersistWorkers(0)
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdatePersistWorkers(0)
	if timedOut {
		return fmt.Errorf("pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
