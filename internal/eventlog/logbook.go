package eventlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dukerupert/chorewheel/internal/model"
)

// Level is the severity column of a logbook line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// LevelOf maps an event onto a logbook level.
func LevelOf(e model.Event) Level {
	switch {
	case e.IsError():
		return LevelError
	case e.IsWarning():
		return LevelWarn
	}
	return LevelInfo
}

// Logbook is the local append-only text log.
type Logbook struct {
	path string
	mu   sync.Mutex
}

// NewLogbook creates a logbook that writes to path, creating its directory.
func NewLogbook(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create logbook dir: %w", err)
	}
	return &Logbook{path: path}, nil
}

func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes one line per event: RFC 3339 time, level, run id, message.
func (l *Logbook) Append(runID string, events []model.Event) error {
	if l == nil || len(events) == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open logbook: %w", err)
	}

	w := bufio.NewWriter(file)
	for _, e := range events {
		fmt.Fprintf(w, "%s %-5s %s %s\n",
			e.At.UTC().Format("2006-01-02T15:04:05Z07:00"),
			LevelOf(e),
			runID,
			strings.TrimSpace(e.Message),
		)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write logbook: %w", err)
	}
	return file.Close()
}

// Tail returns up to maxLines of the most recent lines.
func (l *Logbook) Tail(maxLines int) ([]string, error) {
	if l == nil || maxLines <= 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read logbook: %w", err)
	}
	return lines, nil
}
