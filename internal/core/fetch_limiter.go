package core

// fetch_limiter.go bounds the number of spreadsheet calls in flight across
// all requests.
//
// The spreadsheet provider enforces per-project quotas, so every gateway call
// takes a slot from a shared semaphore first. Admitting a new request (the
// worksheet listing) waits at most maxWait and fails with ErrFetchSlotsBusy.
// Worksheet fetches of an admitted request wait for as long as the request
// context allows, so a busy process slows a query down but never truncates it.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrFetchSlotsBusy is returned when every fetch slot stayed occupied for the
// whole wait period.
var ErrFetchSlotsBusy = errors.New("too many concurrent spreadsheet fetches")

// DefaultMaxConcurrentFetches is used when a non-positive limit is configured.
const DefaultMaxConcurrentFetches = 4

// DefaultFetchWait is used when a non-positive wait is configured.
const DefaultFetchWait = 10 * time.Second

// FetchLimiter is a semaphore over gateway calls.
type FetchLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
	served int64
	busy   int64
}

// NewFetchLimiter allows at most maxConcurrent simultaneous fetches.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultFetchWait
	}

	return &FetchLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. It returns ctx.Err() if ctx ends first and
// ErrFetchSlotsBusy if maxWait elapses. Callers must Release after a nil
// return.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.taken()
		return nil

	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		l.mu.Lock()
		l.busy++
		l.mu.Unlock()
		return ErrFetchSlotsBusy
	}
}

// AcquireWait waits for a slot until ctx ends, ignoring maxWait. Callers
// must Release after a nil return.
func (l *FetchLimiter) AcquireWait(ctx context.Context) error {
	select {
	case l.semaphore <- struct{}{}:
		l.taken()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *FetchLimiter) taken() {
	l.mu.Lock()
	l.active++
	l.served++
	l.mu.Unlock()
}

// Release frees a slot taken by Acquire or AcquireWait.
func (l *FetchLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of fetches currently holding a slot.
func (l *FetchLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// MaxConcurrent returns the number of slots.
func (l *FetchLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// FetchLimiterStatus is a point-in-time view of a FetchLimiter.
type FetchLimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Served        int64 `json:"served"`
	Rejected      int64 `json:"rejected"`
}

// Status returns the current limiter counters.
func (l *FetchLimiter) Status() FetchLimiterStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return FetchLimiterStatus{
		Active:        l.active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
		Served:        l.served,
		Rejected:      l.busy,
	}
}
