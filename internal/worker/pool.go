// Package worker provides the bounded task pools that every background side
// effect (notification, broadcast, persistence) is handed to.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
	ErrQueueFull  = errors.New("worker pool queue is full")
)

// Task is one unit of background work. The context is cancelled when the pool
// is forced to stop before draining.
type Task func(ctx context.Context) error

// Pool runs tasks on a fixed number of goroutines fed by a bounded queue.
// Submit never blocks the caller: when the queue is full the task is dropped.
type Pool struct {
	name  string
	log   *slog.Logger
	tasks chan Task
	group *errgroup.Group

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func NewPool(name string, workers, queueSize int, log *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		name:   name,
		log:    log.With("pool", name),
		tasks:  make(chan Task, queueSize),
		group:  &errgroup.Group{},
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.group.Go(func() error {
			for task := range p.tasks {
				p.run(task)
			}
			return nil
		})
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		p.dropped.Add(1)
		p.log.Warn("Task dropped, queue is full", "queue_size", cap(p.tasks))
		return ErrQueueFull
	}
}

// Go is Submit for callers that only want the drop logged.
func (p *Pool) Go(task Task) {
	if err := p.Submit(task); err != nil && !errors.Is(err, ErrQueueFull) {
		p.log.Warn("Task rejected", "error", err)
	}
}

// Dropped returns how many tasks were rejected because the queue was full.
func (p *Pool) Dropped() int64 { return p.dropped.Load() }

func (p *Pool) Name() string { return p.name }

// Shutdown stops accepting tasks and waits for queued ones to finish.
// If ctx expires first, running tasks see their context cancelled.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		_ = p.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return fmt.Errorf("pool %s did not drain: %w", p.name, ctx.Err())
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Task panicked", "panic", r)
		}
	}()
	if err := task(p.ctx); err != nil {
		p.log.Error("Task failed", "error", err)
	}
}
