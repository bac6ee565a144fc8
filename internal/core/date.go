package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date without a time of day or location.
//
// A Date built from components that do not name a real day (month 13,
// February 30) is kept but reports Valid() == false. Invalid dates never
// compare as before, after or equal to anything, so they drop out of every
// range check.
type Date struct {
	Year  int
	Month time.Month
	Day   int
	valid bool
}

// NewDate builds a Date from its components without normalizing them.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{Year: year, Month: month, Day: day}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	d.valid = t.Year() == year && t.Month() == month && t.Day() == day
	return d
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	return d.valid
}

// Compare returns -1, 0 or +1 by calendar order. ok is false when either
// side is invalid.
func (d Date) Compare(other Date) (cmp int, ok bool) {
	if !d.valid || !other.valid {
		return 0, false
	}
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year), true
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month)), true
	default:
		return sign(d.Day - other.Day), true
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c < 0
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	c, ok := d.Compare(other)
	return ok && c > 0
}

// String formats d as YYYY-MM-DD. Invalid dates keep their raw components.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// DateRange is an inclusive pair of dates. Start <= End is not enforced.
type DateRange struct {
	Start Date
	End   Date
}

// Overlaps reports whether r and other share at least one day:
// r.Start <= other.End && r.End >= other.Start. Ranges with an invalid end
// never overlap anything.
func (r DateRange) Overlaps(other DateRange) bool {
	startCmp, ok := r.Start.Compare(other.End)
	if !ok {
		return false
	}
	endCmp, ok := r.End.Compare(other.Start)
	if !ok {
		return false
	}
	return startCmp <= 0 && endCmp >= 0
}

// String formats r the way query ranges are written: YYYY-MM-DD-YYYY-MM-DD.
func (r DateRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

var queryRangePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-(\d{4})-(\d{2})-(\d{2})$`)

// ParseQueryRange parses a caller-supplied range such as
// "2024-01-01-2024-01-15". Anything that is not two ISO dates joined by a
// hyphen, or that names a day that does not exist, yields ErrInvalidDateRange.
func ParseQueryRange(s string) (DateRange, error) {
	m := queryRangePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, s)
	}

	n := atoiAll(m[1:])
	r := DateRange{
		Start: NewDate(n[0], time.Month(n[1]), n[2]),
		End:   NewDate(n[3], time.Month(n[4]), n[5]),
	}
	if !r.Start.Valid() || !r.End.Valid() {
		return DateRange{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDateRange, s)
	}
	return r, nil
}

// atoiAll converts regexp digit groups. The groups are \d+ so Atoi cannot fail
// short of overflow, which the group widths rule out.
func atoiAll(groups []string) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i], _ = strconv.Atoi(g)
	}
	return out
}

// entryDateLayouts are the cell formats accepted for a log entry's date,
// tried in order.
var entryDateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2006/1/2",
	"2-1-2006",
}

// ParseEntryDate reads the date cell of a log entry. ok is false when the
// text matches none of the accepted layouts.
func ParseEntryDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true
		}
	}
	return Date{}, false
}
