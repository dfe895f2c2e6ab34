package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dukerupert/chorewheel/internal/model"
)

func TestFileStoreMissingFiles(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent"))
	ctx := context.Background()

	candidates, errs, err := s.LoadCandidates(ctx)
	if err != nil {
		t.Fatalf("load candidates: %v", err)
	}
	if candidates != nil || errs != nil {
		t.Errorf("expected nothing, got %v %v", candidates, errs)
	}

	chores, _, err := s.LoadChores(ctx)
	if err != nil {
		t.Fatalf("load chores: %v", err)
	}
	if chores != nil {
		t.Errorf("expected nothing, got %v", chores)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	candidates, chores := sampleRecords()

	if err := s.SaveCandidates(ctx, candidates); err != nil {
		t.Fatalf("save candidates: %v", err)
	}
	if err := s.SaveChores(ctx, chores); err != nil {
		t.Fatalf("save chores: %v", err)
	}

	gotCandidates, _, err := s.LoadCandidates(ctx)
	if err != nil {
		t.Fatalf("load candidates: %v", err)
	}
	if !reflect.DeepEqual(gotCandidates, candidates) {
		t.Errorf("candidates:\n got %+v\nwant %+v", gotCandidates, candidates)
	}

	gotChores, _, err := s.LoadChores(ctx)
	if err != nil {
		t.Fatalf("load chores: %v", err)
	}
	if len(gotChores) != len(chores) {
		t.Fatalf("got %d chores, want %d", len(gotChores), len(chores))
	}
	for i := range chores {
		if gotChores[i].Name != chores[i].Name || gotChores[i].Completed != chores[i].Completed {
			t.Errorf("chore %d = %+v, want %+v", i, gotChores[i], chores[i])
		}
	}
}

func TestFileStoreBackupBeforeOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	ctx := context.Background()

	if err := s.SaveCandidates(ctx, []model.Candidate{{Name: "Al"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "backup_"+CandidatesFile)); !os.IsNotExist(err) {
		t.Errorf("no backup expected on first save, stat err = %v", err)
	}

	if err := s.SaveCandidates(ctx, []model.Candidate{{Name: "Bo"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	backup := NewFileStore(dir)
	data, err := os.ReadFile(filepath.Join(dir, "backup_"+CandidatesFile))
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, CandidatesFile), data, 0o644); err != nil {
		t.Fatalf("restore backup: %v", err)
	}
	got, _, err := backup.LoadCandidates(ctx)
	if err != nil {
		t.Fatalf("load backup: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Al" {
		t.Errorf("backup holds %+v, want Al", got)
	}
}

func TestFileStoreDataErrors(t *testing.T) {
	dir := t.TempDir()
	raw := `[
  {"name": "Trash", "completion_frequency": ""},
  {"name": "  "},
  {"name": "Dishes", "completion_frequency": "daily"},
  {"name": "Trash"}
]`
	if err := os.WriteFile(filepath.Join(dir, ChoresFile), []byte(raw), 0o644); err != nil {
		t.Fatalf("write chores: %v", err)
	}

	chores, errs, err := NewFileStore(dir).LoadChores(context.Background())
	if err != nil {
		t.Fatalf("load chores: %v", err)
	}
	if len(chores) != 2 {
		t.Fatalf("got %d chores, want 2", len(chores))
	}
	if chores[0].Frequency != model.FrequencyWeekly {
		t.Errorf("blank frequency = %q, want Weekly", chores[0].Frequency)
	}
	if chores[1].Frequency != model.FrequencyDaily {
		t.Errorf("frequency = %q, want Daily", chores[1].Frequency)
	}
	if len(errs) != 2 || errs[0].Row != 2 || errs[1].Row != 4 {
		t.Errorf("row errors = %v, want entries 2 and 4", errs)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CandidatesFile), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewFileStore(dir).LoadCandidates(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
