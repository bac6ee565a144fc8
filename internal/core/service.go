package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/hourslog/internal/logging"
)

// ServiceConfig tunes how a Service talks to the gateway.
type ServiceConfig struct {
	MaxConcurrentFetches int
	FetchWait            time.Duration
	FetchTimeout         time.Duration
}

// Service answers hours-log queries against one spreadsheet.
type Service struct {
	gateway    Gateway
	limiter    *FetchLimiter
	aggregator *Aggregator
}

// NewService creates a Service reading through gateway.
func NewService(gateway Gateway, cfg ServiceConfig) *Service {
	limiter := NewFetchLimiter(cfg.MaxConcurrentFetches, cfg.FetchWait)
	return &Service{
		gateway:    gateway,
		limiter:    limiter,
		aggregator: NewAggregator(gateway, limiter, cfg.FetchTimeout),
	}
}

// Query selects log entries by date range and filter.
type Query struct {
	Range  DateRange
	Filter Filter
}

// Result is the outcome of a Query.
type Result struct {
	Worksheets []string
	Entries    []LogEntry
}

// ListWorksheets returns every worksheet title in spreadsheet order.
//
// The listing starts every request, so it is where load is shed: it waits at
// most the configured fetch wait for a limiter slot and otherwise fails with
// a *GatewayError wrapping ErrFetchSlotsBusy.
func (s *Service) ListWorksheets(ctx context.Context) ([]string, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, &GatewayError{Op: OpListWorksheets, Err: err}
	}
	names, err := s.gateway.WorksheetNames(ctx)
	s.limiter.Release()
	if err != nil {
		return nil, &GatewayError{Op: OpListWorksheets, Err: err}
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Query runs the full pipeline: list worksheets, keep those overlapping
// q.Range, load and merge their rows, then apply q.Filter.
//
// It returns ErrNoWorksheets when nothing overlaps, a *GatewayError when
// the worksheet list cannot be read, and the context error when ctx ends
// before every worksheet is loaded. Failures loading individual worksheets
// are logged and skipped.
func (s *Service) Query(ctx context.Context, q Query) (*Result, error) {
	logger := logging.WithFields(ctx, "start", q.Range.Start, "end", q.Range.End)

	names, err := s.ListWorksheets(ctx)
	if err != nil {
		return nil, err
	}

	selected := SelectWorksheets(names, q.Range)
	if len(selected) == 0 {
		logger.Info("no worksheet overlaps range", "worksheets", len(names))
		return nil, ErrNoWorksheets
	}
	logger.Info("worksheets selected", "selected", selected)

	entries, err := s.aggregator.Collect(ctx, selected)
	if err != nil {
		return nil, err
	}
	filtered := ApplyFilter(entries, q.Filter)

	logger.Info("query complete",
		"filter", q.Filter.String(),
		"entries", len(entries),
		"matched", len(filtered),
	)

	return &Result{Worksheets: selected, Entries: filtered}, nil
}

// FetchStatus reports the shared fetch limiter state.
func (s *Service) FetchStatus() FetchLimiterStatus {
	return s.limiter.Status()
}
