package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/sheet"
)

const (
	CandidatesFile = "candidates.json"
	ChoresFile     = "chores.json"
)

// FileStore is the local JSON mirror of the spreadsheet. Before a file is
// overwritten its previous contents are copied to backup_<name>.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) LoadCandidates(ctx context.Context) ([]model.Candidate, []*sheet.RowError, error) {
	var raw []model.Candidate
	if err := s.read(CandidatesFile, &raw); err != nil {
		return nil, nil, fmt.Errorf("load candidates: %w", err)
	}

	var (
		out  []model.Candidate
		errs []*sheet.RowError
		seen = make(map[string]bool)
	)
	for i, c := range raw {
		c.Name = strings.TrimSpace(c.Name)
		if re := checkName(sheet.TabCandidates, i, c.Name, seen); re != nil {
			errs = append(errs, re)
			continue
		}
		out = append(out, c)
	}
	return out, errs, nil
}

func (s *FileStore) LoadChores(ctx context.Context) ([]model.Chore, []*sheet.RowError, error) {
	var raw []model.Chore
	if err := s.read(ChoresFile, &raw); err != nil {
		return nil, nil, fmt.Errorf("load chores: %w", err)
	}

	var (
		out  []model.Chore
		errs []*sheet.RowError
		seen = make(map[string]bool)
	)
	for i, c := range raw {
		c.Name = strings.TrimSpace(c.Name)
		if re := checkName(sheet.TabChores, i, c.Name, seen); re != nil {
			errs = append(errs, re)
			continue
		}
		if strings.TrimSpace(string(c.Frequency)) == "" {
			c.Frequency = model.DefaultFrequency
		} else {
			c.Frequency, _ = model.ParseFrequency(string(c.Frequency))
		}
		out = append(out, c)
	}
	return out, errs, nil
}

func (s *FileStore) SaveCandidates(ctx context.Context, candidates []model.Candidate) error {
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	if err := s.write(CandidatesFile, candidates); err != nil {
		return fmt.Errorf("save candidates: %w", err)
	}
	return nil
}

func (s *FileStore) SaveChores(ctx context.Context, chores []model.Chore) error {
	if chores == nil {
		chores = []model.Chore{}
	}
	if err := s.write(ChoresFile, chores); err != nil {
		return fmt.Errorf("save chores: %w", err)
	}
	return nil
}

// read decodes name into v. A missing or empty file leaves v untouched.
func (s *FileStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) write(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	path := filepath.Join(s.dir, name)

	if err := copyFile(path, filepath.Join(s.dir, "backup_"+name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("backup %s: %w", name, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func checkName(tab sheet.Tab, index int, name string, seen map[string]bool) *sheet.RowError {
	// JSON entries are numbered from 1.
	row := index + 1
	if name == "" {
		return &sheet.RowError{Tab: tab, Row: row, Reason: "entry has no name", Skipped: true}
	}
	if seen[name] {
		return &sheet.RowError{Tab: tab, Row: row, Name: name, Reason: "duplicate name", Skipped: true}
	}
	seen[name] = true
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
