package parallel

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(4, nil)
	defer pool.Shutdown()

	ctx := context.Background()
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)

	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(ctx, func() {
			defer wg.Done()
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	wg.Wait()

	if len(seen) != 20 {
		t.Fatalf("expected 20 tasks to run, got %d", len(seen))
	}
}

func TestPoolSubmitAfterShutdownFails(t *testing.T) {
	pool := NewPool(2, nil)
	pool.Shutdown()

	err := pool.Submit(context.Background(), func() {})
	if err != ErrPoolShutdown {
		t.Fatalf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestPoolRecoversPanickingTask(t *testing.T) {
	pool := NewPool(2, nil)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(2)
	_ = pool.Submit(context.Background(), func() {
		defer wg.Done()
		panic("boom")
	})
	_ = pool.Submit(context.Background(), func() {
		defer wg.Done()
	})
	wg.Wait()
	// A task's deferred wg.Done runs before the worker records the outcome;
	// Shutdown waits for the workers, so the counters are final after it.
	pool.Shutdown()

	stats := pool.StatsSnapshot()
	if stats.Failed != 1 {
		t.Fatalf("expected 1 failed task, got %d", stats.Failed)
	}
	if stats.Completed != 1 {
		t.Fatalf("expected 1 completed task, got %d", stats.Completed)
	}
}

func TestMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := Map(context.Background(), 3, nil, items, func(n int) int {
		time.Sleep(time.Millisecond * time.Duration(8-n))
		return n * n
	})

	for i, n := range items {
		if results[i] != n*n {
			t.Fatalf("index %d: expected %d, got %d", i, n*n, results[i])
		}
	}
}
