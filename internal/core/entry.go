package core

import "strings"

// Column positions of a log worksheet. The layout is fixed by the
// spreadsheet and must not be reordered.
const (
	ColDate = iota
	ColProjectName
	ColFromTime
	ColToTime
	ColTaskURL
	ColOriginalURL
	ColDescription
)

// LogEntry is one time-tracking row.
//
// Optional fields are pointers: nil means the row stopped before that
// column, while a pointer to "" means the cell exists but is empty.
type LogEntry struct {
	Date        string  `json:"date"`
	ProjectName *string `json:"project_name,omitempty"`
	FromTime    *string `json:"from_time,omitempty"`
	ToTime      *string `json:"to_time,omitempty"`
	TaskURL     *string `json:"task_url,omitempty"`
	OriginalURL *string `json:"original_url,omitempty"`
	Description *string `json:"description,omitempty"`
}

// NormalizeRows converts the raw cells of one worksheet into log entries.
// The first row is the header and is always skipped, as is any row whose
// date cell is missing or blank.
func NormalizeRows(rows [][]string) []LogEntry {
	if len(rows) <= 1 {
		return []LogEntry{}
	}

	entries := make([]LogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(row[ColDate]) == "" {
			continue
		}

		entries = append(entries, LogEntry{
			Date:        row[ColDate],
			ProjectName: cell(row, ColProjectName),
			FromTime:    cell(row, ColFromTime),
			ToTime:      cell(row, ColToTime),
			TaskURL:     cell(row, ColTaskURL),
			OriginalURL: cell(row, ColOriginalURL),
			Description: cell(row, ColDescription),
		})
	}
	return entries
}

// cell returns a pointer to row[i], or nil if the row is shorter than i+1.
func cell(row []string, i int) *string {
	if i >= len(row) {
		return nil
	}
	v := row[i]
	return &v
}

// text dereferences an optional field, treating absent as empty.
func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
