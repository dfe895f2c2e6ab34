// Package sheet converts records to and from the flat text rows of the chore
// spreadsheet. Row 1 of every tab holds column labels, so data starts on row 2.
package sheet

import (
	"fmt"
	"strings"
	"time"
)

type Tab string

const (
	TabCandidates Tab = "Candidates"
	TabChores     Tab = "Chores"
	TabLog        Tab = "Log"
)

// Column counts per tab.
const (
	CandidateColumns = 9
	ChoreColumns     = 5
)

const firstDataRow = 2

// RowError is a data error found while parsing a row. The row is either skipped
// or corrected, depending on Skipped.
type RowError struct {
	Tab     Tab
	Row     int
	Name    string
	Reason  string
	Skipped bool
}

func (e *RowError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s row %d (%s): %s", e.Tab, e.Row, e.Name, e.Reason)
	}
	return fmt.Sprintf("%s row %d: %s", e.Tab, e.Row, e.Reason)
}

// TimeLayout is used for all timestamps written to the sheet.
const TimeLayout = time.RFC3339

var readLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts the layouts people tend to type into a spreadsheet cell.
// Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// FormatTime renders a timestamp cell, or "" for nil.
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// SplitNames splits a comma-separated cell into trimmed, non-empty names.
// A backslash escapes the next character, so "Wash\, dry" is one name.
func SplitNames(s string) []string {
	var (
		names   []string
		part    strings.Builder
		escaped bool
	)
	flush := func() {
		if name := strings.TrimSpace(part.String()); name != "" {
			names = append(names, name)
		}
		part.Reset()
	}
	for _, r := range s {
		switch {
		case escaped:
			part.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			flush()
		default:
			part.WriteRune(r)
		}
	}
	flush()
	return names
}

var nameEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`)

// JoinNames is the inverse of SplitNames.
func JoinNames(names []string) string {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = nameEscaper.Replace(n)
	}
	return strings.Join(escaped, ", ")
}

// ParseBool reads a completion status cell. Blank is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1", "x":
		return true, nil
	}
	return false, fmt.Errorf("unrecognized completion status %q", s)
}

// FormatBool renders a completion status cell the way the spreadsheet does.
func FormatBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func rowNumber(index int) int {
	return index + firstDataRow
}
