package core

import (
	"regexp"
	"strings"
	"time"
)

// AccountInfoWorksheet is the label of the worksheet that holds account
// details instead of log rows. Any worksheet whose name contains it is skipped.
const AccountInfoWorksheet = "Thông tin tài khoản"

// worksheetRangePattern matches "D/M - D/M/YYYY" anywhere in a worksheet name,
// e.g. "01/1-15/1/2024" or "Week 3 (15/1 - 21/1/2024)".
var worksheetRangePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})\s*-\s*(\d{1,2})/(\d{1,2})/(\d{4})`)

// ParseWorksheetRange extracts the date range embedded in a worksheet name.
// The year is written once and applies to both ends. ok is false when the
// name carries no range.
//
// Out-of-range components are not rejected: "1/13-5/13/2024" returns a range
// whose dates report Valid() == false.
func ParseWorksheetRange(name string) (r DateRange, ok bool) {
	m := worksheetRangePattern.FindStringSubmatch(name)
	if m == nil {
		return DateRange{}, false
	}

	n := atoiAll(m[1:])
	startDay, startMonth, endDay, endMonth, year := n[0], n[1], n[2], n[3], n[4]

	return DateRange{
		Start: NewDate(year, time.Month(startMonth), startDay),
		End:   NewDate(year, time.Month(endMonth), endDay),
	}, true
}

// SelectWorksheets returns, in their original order, the worksheets whose
// embedded range overlaps query. Undated worksheets and the account-info
// worksheet are left out. An empty result is not an error.
func SelectWorksheets(names []string, query DateRange) []string {
	selected := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(name, AccountInfoWorksheet) {
			continue
		}

		r, ok := ParseWorksheetRange(name)
		if !ok {
			continue
		}

		if r.Overlaps(query) {
			selected = append(selected, name)
		}
	}
	return selected
}
