package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dukerupert/chorewheel/internal/model"
)

// LogEntry is one row of the Log tab.
type LogEntry struct {
	ID       string          `json:"id"`
	RunID    string          `json:"run_id"`
	LoggedAt time.Time       `json:"logged_at"`
	Kind     model.EventKind `json:"kind"`
	Message  string          `json:"message"`
}

// LogStore is the Log tab: an append-only list of event lines.
type LogStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// newID returns a ULID that sorts after every ID this store handed out before.
func (s *LogStore) newID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), s.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Append writes events in order.
func (s *LogStore) Append(ctx context.Context, runID string, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		id, err := s.newID()
		if err != nil {
			return fmt.Errorf("new log id: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO log_rows (id, run_id, logged_at, kind, message) VALUES (?, ?, ?, ?, ?)`,
			id, runID, e.At.UTC().Format(time.RFC3339Nano), string(e.Kind), e.Message,
		)
		if err != nil {
			return fmt.Errorf("append log: %w", err)
		}
	}
	return tx.Commit()
}

const logCols = `id, run_id, logged_at, kind, message`

// List returns the most recent entries, oldest first. A limit <= 0 returns all.
func (s *LogStore) List(ctx context.Context, limit int) ([]LogEntry, error) {
	query := `SELECT ` + logCols + ` FROM log_rows ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	entries, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list log: %w", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// ListRun returns every entry written by one run, in order.
func (s *LogStore) ListRun(ctx context.Context, runID string) ([]LogEntry, error) {
	entries, err := s.query(ctx, `SELECT `+logCols+` FROM log_rows WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run log: %w", err)
	}
	return entries, nil
}

func (s *LogStore) query(ctx context.Context, query string, args ...any) ([]LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		var loggedAt, kind string
		if err := rows.Scan(&e.ID, &e.RunID, &loggedAt, &kind, &e.Message); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		e.Kind = model.EventKind(kind)
		if e.LoggedAt, err = time.Parse(time.RFC3339Nano, loggedAt); err != nil {
			return nil, fmt.Errorf("parse log time: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
