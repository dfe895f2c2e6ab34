package sheet

import (
	"fmt"

	"github.com/dukerupert/chorewheel/internal/model"
)

// ParseCandidates reads rows of the Candidates tab:
// name, email, mon, tues, wed, thurs, fri, assigned chores, recently completed.
func ParseCandidates(rows [][]string) ([]model.Candidate, []*RowError) {
	var (
		out  []model.Candidate
		errs []*RowError
		seen = make(map[string]int)
	)
	for i, row := range rows {
		name := cell(row, 0)
		if name == "" {
			if !blank(row) {
				errs = append(errs, &RowError{Tab: TabCandidates, Row: rowNumber(i), Reason: "candidate has no name", Skipped: true})
			}
			continue
		}
		if first, dup := seen[name]; dup {
			errs = append(errs, &RowError{
				Tab: TabCandidates, Row: rowNumber(i), Name: name, Skipped: true,
				Reason: fmt.Sprintf("duplicate of row %d", first),
			})
			continue
		}
		seen[name] = rowNumber(i)

		c := model.Candidate{
			Name:              name,
			Email:             cell(row, 1),
			AssignedChores:    dedupe(SplitNames(cell(row, 7))),
			RecentlyCompleted: dedupe(SplitNames(cell(row, 8))),
		}
		for d := range model.Weekdays {
			c.Availability[d] = cell(row, 2+d)
		}
		out = append(out, c)
	}
	return out, errs
}

// CandidateRow renders a candidate in Candidates tab column order.
func CandidateRow(c model.Candidate) []string {
	row := make([]string, 0, CandidateColumns)
	row = append(row, c.Name, c.Email)
	row = append(row, c.Availability[:]...)
	row = append(row, JoinNames(c.AssignedChores), JoinNames(c.RecentlyCompleted))
	return row
}

// ParseChores reads rows of the Chores tab:
// name, completion frequency, assignees, assignment time, completion status.
func ParseChores(rows [][]string) ([]model.Chore, []*RowError) {
	var (
		out  []model.Chore
		errs []*RowError
		seen = make(map[string]int)
	)
	for i, row := range rows {
		name := cell(row, 0)
		if name == "" {
			if !blank(row) {
				errs = append(errs, &RowError{Tab: TabChores, Row: rowNumber(i), Reason: "chore has no name", Skipped: true})
			}
			continue
		}
		if first, dup := seen[name]; dup {
			errs = append(errs, &RowError{
				Tab: TabChores, Row: rowNumber(i), Name: name, Skipped: true,
				Reason: fmt.Sprintf("duplicate of row %d", first),
			})
			continue
		}
		seen[name] = rowNumber(i)

		c := model.Chore{
			Name:      name,
			Frequency: model.DefaultFrequency,
			Assignees: SplitNames(cell(row, 2)),
		}

		// Unknown frequencies are kept so the assignment cycle can report and fix them.
		if raw := cell(row, 1); raw != "" {
			c.Frequency, _ = model.ParseFrequency(raw)
		}

		if raw := cell(row, 3); raw != "" {
			t, err := ParseTime(raw)
			if err != nil {
				errs = append(errs, &RowError{
					Tab: TabChores, Row: rowNumber(i), Name: name,
					Reason: fmt.Sprintf("%v, treated as never assigned", err),
				})
			} else {
				c.AssignmentTime = &t
			}
		}

		done, err := ParseBool(cell(row, 4))
		if err != nil {
			errs = append(errs, &RowError{
				Tab: TabChores, Row: rowNumber(i), Name: name,
				Reason: fmt.Sprintf("%v, treated as incomplete", err),
			})
		}
		c.Completed = done

		out = append(out, c)
	}
	return out, errs
}

// ChoreRow renders a chore in Chores tab column order.
func ChoreRow(c model.Chore) []string {
	return []string{
		c.Name,
		string(c.Frequency),
		JoinNames(c.Assignees),
		FormatTime(c.AssignmentTime),
		FormatBool(c.Completed),
	}
}

// CandidateRows renders every candidate.
func CandidateRows(cs []model.Candidate) [][]string {
	rows := make([][]string, len(cs))
	for i, c := range cs {
		rows[i] = CandidateRow(c)
	}
	return rows
}

// ChoreRows renders every chore.
func ChoreRows(cs []model.Chore) [][]string {
	rows := make([][]string, len(cs))
	for i, c := range cs {
		rows[i] = ChoreRow(c)
	}
	return rows
}

func blank(row []string) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

func dedupe(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
