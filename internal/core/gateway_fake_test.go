package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var errFakeGateway = errors.New("fake gateway failure")

// fakeGateway serves fixed worksheets. Worksheets listed in failing return
// errFakeGateway; delay is applied to every Rows call.
type fakeGateway struct {
	names     []string
	sheets    map[string][][]string
	failing   map[string]bool
	listErr   error
	delay     time.Duration
	mu        sync.Mutex
	requested []string
	inFlight  atomic.Int32
	maxSeen   atomic.Int32
}

func (g *fakeGateway) WorksheetNames(ctx context.Context) ([]string, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.names, nil
}

func (g *fakeGateway) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		seen := g.maxSeen.Load()
		if n <= seen || g.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	g.mu.Lock()
	g.requested = append(g.requested, worksheet)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if g.failing[worksheet] {
		return nil, errFakeGateway
	}
	return g.sheets[worksheet], nil
}
