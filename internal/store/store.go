package store

import (
	"context"

	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/sheet"
)

// Records loads and saves the candidate and chore collections. An empty or
// missing source loads as an empty list. Row-level data errors are returned
// alongside the records they did not prevent from loading.
type Records interface {
	LoadCandidates(ctx context.Context) ([]model.Candidate, []*sheet.RowError, error)
	LoadChores(ctx context.Context) ([]model.Chore, []*sheet.RowError, error)
	SaveCandidates(ctx context.Context, candidates []model.Candidate) error
	SaveChores(ctx context.Context, chores []model.Chore) error
}

var (
	_ Records = (*SheetStore)(nil)
	_ Records = (*FileStore)(nil)
)
