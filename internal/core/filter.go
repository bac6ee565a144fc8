package core

import (
	"fmt"
	"strings"
)

// FilterField names a log entry field a Filter can match on.
type FilterField string

const (
	FieldOriginalURL FilterField = "original_url"
	FieldTaskURL     FilterField = "url"
)

// ParseFilterField maps a caller-supplied key to a FilterField.
func ParseFilterField(key string) (FilterField, error) {
	switch f := FilterField(strings.TrimSpace(key)); f {
	case FieldOriginalURL, FieldTaskURL:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilterField, key)
	}
}

// Clause keeps entries whose field equals Value. An empty Value matches any
// non-empty field instead.
type Clause struct {
	Field FilterField
	Value string
}

// Filter is an ordered conjunction of clauses. The zero Filter keeps every
// entry that has a date.
type Filter struct {
	Clauses []Clause
}

// Where returns a copy of f with one more clause appended.
func (f Filter) Where(field FilterField, value string) Filter {
	clauses := make([]Clause, len(f.Clauses), len(f.Clauses)+1)
	copy(clauses, f.Clauses)
	return Filter{Clauses: append(clauses, Clause{Field: field, Value: value})}
}

// WherePresent requires field to be non-empty.
func (f Filter) WherePresent(field FilterField) Filter {
	return f.Where(field, "")
}

// String renders the clauses for logging, e.g. "original_url=* url=http://x".
func (f Filter) String() string {
	if len(f.Clauses) == 0 {
		return "date=*"
	}
	parts := make([]string, len(f.Clauses))
	for i, c := range f.Clauses {
		v := c.Value
		if v == "" {
			v = "*"
		}
		parts[i] = string(c.Field) + "=" + v
	}
	return strings.Join(parts, " ")
}

// ApplyFilter returns the entries that satisfy every clause of f, applied in
// order. The input slice is never modified.
func ApplyFilter(entries []LogEntry, f Filter) []LogEntry {
	if len(f.Clauses) == 0 {
		return keep(entries, func(e LogEntry) bool { return strings.TrimSpace(e.Date) != "" })
	}

	out := entries
	for _, c := range f.Clauses {
		out = keep(out, c.match)
	}
	return out
}

func (c Clause) match(e LogEntry) bool {
	var v string
	switch c.Field {
	case FieldOriginalURL:
		v = text(e.OriginalURL)
	case FieldTaskURL:
		v = text(e.TaskURL)
	default:
		return false
	}

	if c.Value == "" {
		return v != ""
	}
	return v == c.Value
}

// keep returns a new slice holding the entries for which pred is true.
func keep(entries []LogEntry, pred func(LogEntry) bool) []LogEntry {
	out := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
