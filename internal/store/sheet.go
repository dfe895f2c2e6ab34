package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/sheet"
)

// SheetStore keeps the Candidates and Chores tabs as rows of text cells, in
// the same column order as the spreadsheet.
type SheetStore struct {
	db *sql.DB
}

func NewSheetStore(db *sql.DB) *SheetStore {
	return &SheetStore{db: db}
}

const candidateCols = `name, email, mon, tues, wed, thurs, fri, assigned_chores, recently_completed`

const choreCols = `name, completion_frequency, assignees, assignment_time, completion_status`

func (s *SheetStore) LoadCandidates(ctx context.Context) ([]model.Candidate, []*sheet.RowError, error) {
	rows, err := s.readRows(ctx, `SELECT `+candidateCols+` FROM candidate_rows ORDER BY position ASC`, sheet.CandidateColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("load candidates: %w", err)
	}
	candidates, rowErrs := sheet.ParseCandidates(rows)
	return candidates, rowErrs, nil
}

func (s *SheetStore) LoadChores(ctx context.Context) ([]model.Chore, []*sheet.RowError, error) {
	rows, err := s.readRows(ctx, `SELECT `+choreCols+` FROM chore_rows ORDER BY position ASC`, sheet.ChoreColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("load chores: %w", err)
	}
	chores, rowErrs := sheet.ParseChores(rows)
	return chores, rowErrs, nil
}

func (s *SheetStore) SaveCandidates(ctx context.Context, candidates []model.Candidate) error {
	err := s.replaceRows(ctx, "candidate_rows", candidateCols, sheet.CandidateColumns, sheet.CandidateRows(candidates))
	if err != nil {
		return fmt.Errorf("save candidates: %w", err)
	}
	return nil
}

func (s *SheetStore) SaveChores(ctx context.Context, chores []model.Chore) error {
	err := s.replaceRows(ctx, "chore_rows", choreCols, sheet.ChoreColumns, sheet.ChoreRows(chores))
	if err != nil {
		return fmt.Errorf("save chores: %w", err)
	}
	return nil
}

// ImportRows writes raw rows into a tab as-is, without parsing them. Rows are
// padded or truncated to the tab's width.
func (s *SheetStore) ImportRows(ctx context.Context, tab sheet.Tab, rows [][]string) error {
	switch tab {
	case sheet.TabCandidates:
		return s.replaceRows(ctx, "candidate_rows", candidateCols, sheet.CandidateColumns, rows)
	case sheet.TabChores:
		return s.replaceRows(ctx, "chore_rows", choreCols, sheet.ChoreColumns, rows)
	}
	return fmt.Errorf("import rows: unsupported tab %q", tab)
}

func (s *SheetStore) readRows(ctx context.Context, query string, width int) ([][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		cells := make([]string, width)
		dest := make([]any, width)
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// replaceRows clears a tab and writes rows in order, in one transaction.
func (s *SheetStore) replaceRows(ctx context.Context, table, cols string, width int, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	placeholders := "?"
	for i := 1; i < width; i++ {
		placeholders += ", ?"
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+table+` (position, `+cols+`) VALUES (?, `+placeholders+`)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		args := make([]any, 0, width+1)
		args = append(args, i)
		for c := 0; c < width; c++ {
			v := ""
			if c < len(row) {
				v = row[c]
			}
			args = append(args, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}
