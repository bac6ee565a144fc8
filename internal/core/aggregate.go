package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/JonMunkholm/hourslog/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Gateway is the read access the core needs to the spreadsheet.
type Gateway interface {
	// WorksheetNames lists worksheet titles in spreadsheet order.
	WorksheetNames(ctx context.Context) ([]string, error)

	// Rows returns the cell text of a worksheet, header row first. A
	// worksheet with no data returns an empty slice.
	Rows(ctx context.Context, worksheet string) ([][]string, error)
}

// DefaultFetchTimeout bounds a single worksheet fetch.
const DefaultFetchTimeout = 20 * time.Second

// Aggregator fetches and merges the log entries of several worksheets.
type Aggregator struct {
	gateway      Gateway
	limiter      *FetchLimiter
	fetchTimeout time.Duration
}

// NewAggregator returns an Aggregator reading through gateway. A nil limiter
// gets a default one.
func NewAggregator(gateway Gateway, limiter *FetchLimiter, fetchTimeout time.Duration) *Aggregator {
	if limiter == nil {
		limiter = NewFetchLimiter(DefaultMaxConcurrentFetches, DefaultFetchWait)
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Aggregator{
		gateway:      gateway,
		limiter:      limiter,
		fetchTimeout: fetchTimeout,
	}
}

// Collect fetches every worksheet, normalizes its rows and returns all
// entries sorted newest first. At most MaxConcurrent worksheets of one call
// are in flight, and each waits for a shared slot for as long as ctx allows.
// A worksheet that fails to load is logged and contributes nothing. Collect
// fails only when ctx ends, since the result would then be incomplete.
func (a *Aggregator) Collect(ctx context.Context, worksheets []string) ([]LogEntry, error) {
	perSheet := make([][]LogEntry, len(worksheets))

	var g errgroup.Group
	g.SetLimit(a.limiter.MaxConcurrent())
	for i, name := range worksheets {
		g.Go(func() error {
			entries, err := a.fetch(ctx, name)
			if err != nil {
				if ctx.Err() == nil {
					logging.WithFields(ctx, "worksheet", name).Warn("skipping worksheet", "error", err)
				}
				return nil
			}
			perSheet[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect worksheets: %w", err)
	}

	var all []LogEntry
	for _, entries := range perSheet {
		all = append(all, entries...)
	}
	if all == nil {
		all = []LogEntry{}
	}

	SortNewestFirst(all)
	return all, nil
}

// fetch loads and normalizes one worksheet.
func (a *Aggregator) fetch(ctx context.Context, worksheet string) ([]LogEntry, error) {
	if err := a.limiter.AcquireWait(ctx); err != nil {
		return nil, &GatewayError{Op: OpFetchRows, Worksheet: worksheet, Err: err}
	}
	defer a.limiter.Release()

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	rows, err := a.gateway.Rows(fetchCtx, worksheet)
	if err != nil {
		return nil, &GatewayError{Op: OpFetchRows, Worksheet: worksheet, Err: err}
	}

	entries := NormalizeRows(rows)
	logging.FromContext(ctx).Debug("worksheet loaded",
		"worksheet", worksheet,
		"rows", len(rows),
		"entries", len(entries),
	)
	return entries, nil
}

// SortNewestFirst orders entries by date, most recent first. Equal dates keep
// their relative order. Entries with an unreadable date go last.
func SortNewestFirst(entries []LogEntry) {
	type keyed struct {
		entry LogEntry
		date  Date
		ok    bool
	}

	ks := make([]keyed, len(entries))
	for i, e := range entries {
		d, ok := ParseEntryDate(e.Date)
		ks[i] = keyed{entry: e, date: d, ok: ok}
	}

	slices.SortStableFunc(ks, func(x, y keyed) int {
		switch {
		case x.ok && y.ok:
			c, _ := y.date.Compare(x.date)
			return c
		case x.ok:
			return -1
		case y.ok:
			return 1
		default:
			return 0
		}
	})

	for i, k := range ks {
		entries[i] = k.entry
	}
}
