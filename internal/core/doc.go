// Package core selects, loads and filters hours-log entries kept in a dated
// set of spreadsheet worksheets.
//
// It has no transport dependencies. Web handlers, the CLI and tests drive it
// through [Service] with any [Gateway] implementation.
//
// # Worksheets
//
// Each log worksheet carries its period in its title, written day first:
//
//	01/1-15/1/2024
//	Tuần 3 (15/1 - 21/1/2024)
//
// [ParseWorksheetRange] extracts that period. [SelectWorksheets] keeps the
// worksheets whose period overlaps the requested [DateRange], in spreadsheet
// order, and always skips the account-info worksheet ([AccountInfoWorksheet]).
//
// # Rows
//
// Row one of a worksheet is its header. The remaining rows map by column
// position onto [LogEntry]:
//
//	A date  B project  C from  D to  E task url  F original url  G description
//
// Rows without a date are dropped by [NormalizeRows].
//
// # Aggregation
//
// [Aggregator.Collect] loads worksheets concurrently, at most as many at once
// as the shared [FetchLimiter] has slots. Each load waits for a slot for as
// long as the request lives and runs under its own timeout. A worksheet that
// fails to load is logged and skipped; a request that ends early fails as a
// whole. The merged entries are ordered newest first by [SortNewestFirst].
//
// # Filtering
//
// A [Filter] is an ordered list of clauses on original_url or url. An empty
// clause value means "any non-empty value". The zero Filter keeps every entry
// with a date.
//
// # Errors
//
//   - [ErrInvalidDateRange]: the query range text is malformed
//   - [ErrNoWorksheets]: no worksheet overlaps the range
//   - [*GatewayError]: the spreadsheet could not be read, or wraps
//     [ErrFetchSlotsBusy] when no slot freed up to start the request
//   - the context error: the request ended before every worksheet loaded
package core
