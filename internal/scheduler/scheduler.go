// Package scheduler runs one assignment cycle against a record store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorewheel/internal/chore"
	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/notify"
	"github.com/dukerupert/chorewheel/internal/sheet"
	"github.com/dukerupert/chorewheel/internal/store"
)

// ErrStoreIO marks a cycle that failed because the record store could not be
// read or written. Test with errors.Is.
var ErrStoreIO = errors.New("record store i/o")

// Snapshotter saves a copy of the loaded records before they are overwritten.
type Snapshotter interface {
	Snapshot(ctx context.Context, runID string, candidates []model.Candidate, chores []model.Chore) (*model.Backup, error)
	Cleanup(ctx context.Context, now time.Time) (int, error)
}

// Publisher records the events of a run.
type Publisher interface {
	Publish(ctx context.Context, runID string, events []model.Event) error
}

// Scheduler wires the store, the engine and the best-effort side effects.
type Scheduler struct {
	records    store.Records
	snapshots  Snapshotter
	publisher  Publisher
	dispatcher *notify.Dispatcher
	dryRun     bool
	noNotify   bool
	newRunID   func() string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSnapshots takes a backup of the loaded records on every writing run.
func WithSnapshots(s Snapshotter) Option {
	return func(sc *Scheduler) { sc.snapshots = s }
}

// WithPublisher sets where events go.
func WithPublisher(p Publisher) Option {
	return func(sc *Scheduler) { sc.publisher = p }
}

// WithDispatcher sets the notification dispatcher.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(sc *Scheduler) { sc.dispatcher = d }
}

// WithDryRun computes assignments without saving, publishing or notifying.
func WithDryRun(dry bool) Option {
	return func(sc *Scheduler) { sc.dryRun = dry }
}

// WithoutNotify saves and publishes but sends no email.
func WithoutNotify(skip bool) Option {
	return func(sc *Scheduler) { sc.noNotify = skip }
}

func New(records store.Records, opts ...Option) *Scheduler {
	s := &Scheduler{records: records, newRunID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report describes a finished cycle.
type Report struct {
	RunID      string
	At         time.Time
	DryRun     bool
	Events     []model.Event
	Assigned   int
	Candidates []model.Candidate
	Chores     []model.Chore
	Backup     *model.Backup
	Notified   notify.Summary
}

// Errors counts the events that represent data errors or skipped work.
func (r *Report) Errors() int {
	n := 0
	for _, e := range r.Events {
		if e.IsError() {
			n++
		}
	}
	return n
}

// RunOnce loads the records, assigns due chores, writes the records back and
// reports what happened. Only store failures fail the cycle; snapshot, event
// log and notification failures are logged and the cycle continues. A failed
// save is not rolled back: the candidates may already have been written.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{RunID: s.newRunID(), At: now, DryRun: s.dryRun}
	log := slog.With("run_id", report.RunID)

	candidates, candErrs, err := s.records.LoadCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load candidates: %w", ErrStoreIO, err)
	}
	chores, choreErrs, err := s.records.LoadChores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load chores: %w", ErrStoreIO, err)
	}
	log.Info("records loaded", "candidates", len(candidates), "chores", len(chores))

	rowEvents := rowErrorEvents(now, append(candErrs, choreErrs...))

	if !s.dryRun {
		report.Backup = s.snapshot(ctx, log, report.RunID, candidates, chores, now)
	}

	result := chore.RunCycle(candidates, chores, now)
	report.Events = append(rowEvents, result.Events...)
	report.Assigned = result.Assigned()
	report.Candidates = result.Candidates
	report.Chores = result.Chores

	if s.dryRun {
		log.Info("dry run, records not saved", "assigned", report.Assigned, "events", len(report.Events))
		return report, nil
	}

	if err := s.records.SaveCandidates(ctx, result.Candidates); err != nil {
		return report, fmt.Errorf("%w: save candidates: %w", ErrStoreIO, err)
	}
	if err := s.records.SaveChores(ctx, result.Chores); err != nil {
		return report, fmt.Errorf("%w: save chores: %w", ErrStoreIO, err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, report.RunID, report.Events); err != nil {
			log.Warn("event log incomplete", "error", err)
		}
	}

	if s.dispatcher != nil && !s.noNotify {
		report.Notified = s.dispatcher.Send(ctx, result.Candidates, report.Events)
	}

	log.Info("run finished",
		"assigned", report.Assigned,
		"events", len(report.Events),
		"errors", report.Errors(),
		"notified", report.Notified.Sent,
	)
	return report, nil
}

func (s *Scheduler) snapshot(ctx context.Context, log *slog.Logger, runID string, candidates []model.Candidate, chores []model.Chore, now time.Time) *model.Backup {
	if s.snapshots == nil {
		return nil
	}
	b, err := s.snapshots.Snapshot(ctx, runID, candidates, chores)
	if err != nil {
		log.Error("snapshot records", "error", err)
		return b
	}
	if n, err := s.snapshots.Cleanup(ctx, now); err != nil {
		log.Warn("clean up old snapshots", "error", err)
	} else if n > 0 {
		log.Info("old snapshots removed", "count", n)
	}
	return b
}

// rowErrorEvents turns load-time data errors into run events.
func rowErrorEvents(now time.Time, errs []*sheet.RowError) []model.Event {
	events := make([]model.Event, 0, len(errs))
	for _, re := range errs {
		e := model.Event{At: now, Kind: model.EventRowCorrected, Message: re.Error()}
		if re.Skipped {
			e.Kind = model.EventRowSkipped
		}
		if re.Tab == sheet.TabChores {
			e.Chore = re.Name
		} else {
			e.Candidate = re.Name
		}
		events = append(events, e)
	}
	return events
}
