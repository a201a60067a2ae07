// Package parallel provides a small fixed-size worker pool used by the CLI
// to run independent solves concurrently (one per snapshot file): a
// task-channel + WaitGroup + panic-recovery shape sized to the number of
// CPUs, with no dynamic scale-up/scale-down — a batch of independent,
// CPU-bound solves has no queue-depth backpressure problem to manage, and
// each solve owns its own single-threaded SolverContext.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/gitrdm/campsched/internal/logx"
)

// ErrPoolShutdown is returned by Submit once the pool has been shut down.
var ErrPoolShutdown = errors.New("parallel: pool is shut down")

// Stats tracks submitted/completed/failed task counts for diagnostics.
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64
}

// Pool is a fixed-size worker pool: workers goroutines drain a single task
// channel until Shutdown closes it.
type Pool struct {
	taskChan     chan func()
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownChan chan struct{}
	log          *logx.Logger

	submitted int64
	completed int64
	failed    int64
}

// NewPool starts a pool with workers goroutines. workers <= 0 defaults to
// runtime.NumCPU(). A nil log discards panic diagnostics silently.
func NewPool(workers int, log *logx.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logx.Nop()
	}
	p := &Pool{
		taskChan:     make(chan func(), workers*2),
		shutdownChan: make(chan struct{}),
		log:          log,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.taskChan:
			if !ok {
				return
			}
			p.run(task)
		case <-p.shutdownChan:
			return
		}
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&p.failed, 1)
			p.log.Error("task panicked", zap.Any("recover", r))
			return
		}
		atomic.AddInt64(&p.completed, 1)
	}()
	task()
}

// Submit enqueues task, blocking until a slot is free, ctx is cancelled, or
// the pool is shut down.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	atomic.AddInt64(&p.submitted, 1)
	// Checked first: once Shutdown has closed taskChan, a send on it panics.
	select {
	case <-p.shutdownChan:
		return ErrPoolShutdown
	default:
	}
	select {
	case p.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops accepting new tasks and waits for running ones to finish.
// Tasks still queued when it is called may be dropped without running.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownChan)
		close(p.taskChan)
		p.wg.Wait()
	})
}

// StatsSnapshot returns a snapshot of the pool's counters.
func (p *Pool) StatsSnapshot() Stats {
	return Stats{
		Submitted: atomic.LoadInt64(&p.submitted),
		Completed: atomic.LoadInt64(&p.completed),
		Failed:    atomic.LoadInt64(&p.failed),
	}
}

// Map runs fn over every item using a pool of workers goroutines and
// returns results in the same order as items. Each item's fn call is
// independent; a panic in one item's fn is recovered and that slot's
// result is the zero value of R.
func Map[T any, R any](ctx context.Context, workers int, log *logx.Logger, items []T, fn func(T) R) []R {
	pool := NewPool(workers, log)
	defer pool.Shutdown()

	results := make([]R, len(items))
	var wg sync.WaitGroup
	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			results[i] = fn(item)
		})
		if err != nil {
			wg.Done()
		}
	}
	wg.Wait()
	return results
}
