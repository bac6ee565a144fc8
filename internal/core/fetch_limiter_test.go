package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFetchLimiter_AcquireRelease(t *testing.T) {
	limiter := NewFetchLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Status().Available; got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Status().Available; got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
	if got := limiter.Status().Served; got != 2 {
		t.Errorf("Served = %d, want 2", got)
	}
}

func TestFetchLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewFetchLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrFetchSlotsBusy) {
		t.Errorf("expected ErrFetchSlotsBusy, got %v", err)
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("returned too early: %v", elapsed)
	}
	if got := limiter.Status().Rejected; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
}

func TestFetchLimiter_ContextCancelled(t *testing.T) {
	limiter := NewFetchLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFetchLimiter_Defaults(t *testing.T) {
	limiter := NewFetchLimiter(0, 0)
	if got := limiter.Status().MaxConcurrent; got != DefaultMaxConcurrentFetches {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentFetches)
	}
}

func TestFetchLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewFetchLimiter(maxConcurrent, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := 0

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			mu.Lock()
			if c := limiter.ActiveCount(); c > maxObserved {
				maxObserved = c
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("observed %d concurrent fetches, limit is %d", maxObserved, maxConcurrent)
	}
}

func TestFetchLimiter_AcquireWaitOutlastsMaxWait(t *testing.T) {
	limiter := NewFetchLimiter(1, 10*time.Millisecond)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := limiter.AcquireWait(ctx); err != nil {
		t.Fatalf("AcquireWait: %v", err)
	}
	limiter.Release()

	if got := limiter.Status().Rejected; got != 0 {
		t.Errorf("Rejected = %d, want 0", got)
	}
	if got := limiter.Status().Served; got != 2 {
		t.Errorf("Served = %d, want 2", got)
	}
}

func TestFetchLimiter_AcquireWaitContextEnds(t *testing.T) {
	limiter := NewFetchLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.AcquireWait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if got := limiter.MaxConcurrent(); got != 1 {
		t.Errorf("MaxConcurrent = %d, want 1", got)
	}
}
