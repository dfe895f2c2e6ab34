package chore

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/chorewheel/internal/model"
)

// Result is the outcome of one assignment cycle.
type Result struct {
	Candidates []model.Candidate
	Chores     []model.Chore
	Events     []model.Event
}

// Assigned counts the assignment events in the result.
func (r *Result) Assigned() int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == model.EventAssigned {
			n++
		}
	}
	return n
}

// RunCycle assigns every due chore to an eligible candidate. The inputs are copied,
// never mutated. Chores are processed in list order and the same inputs always
// produce the same result.
func RunCycle(candidates []model.Candidate, chores []model.Chore, now time.Time) *Result {
	r := &Result{
		Candidates: make([]model.Candidate, len(candidates)),
		Chores:     make([]model.Chore, len(chores)),
	}
	for i, c := range candidates {
		r.Candidates[i] = c.Clone()
	}
	for i, c := range chores {
		r.Chores[i] = c.Clone()
	}

	for i := range r.Chores {
		c := &r.Chores[i]

		status, err := ComputeStatus(*c, now)
		if errors.Is(err, ErrInvalidFrequency) {
			r.emit(model.Event{
				At:      now,
				Kind:    model.EventFrequencyCorrected,
				Chore:   c.Name,
				Message: fmt.Sprintf("chore %q has invalid completion frequency %q, set to %s", c.Name, c.Frequency, model.DefaultFrequency),
			})
			c.Frequency = model.DefaultFrequency
		}
		if status == StatusCooldown {
			continue
		}

		r.assign(c, now)
	}
	return r
}

func (r *Result) assign(c *model.Chore, now time.Time) {
	if len(r.Candidates) == 0 {
		r.emit(model.Event{
			At:      now,
			Kind:    model.EventNoCandidates,
			Chore:   c.Name,
			Message: fmt.Sprintf("no candidates available for chore %q, skipped", c.Name),
		})
		return
	}

	idx := pick(r.Candidates, c.Name)
	if idx < 0 {
		for i := range r.Candidates {
			r.Candidates[i].Forget(c.Name)
		}
		r.emit(model.Event{
			At:      now,
			Kind:    model.EventPoolReset,
			Chore:   c.Name,
			Message: fmt.Sprintf("every candidate recently did %q, rotation reset", c.Name),
		})
		idx = pick(r.Candidates, c.Name)
	}

	cand := &r.Candidates[idx]
	cand.Take(c.Name)
	c.Assignees = append(c.Assignees, cand.Name)
	t := now
	c.AssignmentTime = &t
	c.Completed = false

	r.emit(model.Event{
		At:        now,
		Kind:      model.EventAssigned,
		Chore:     c.Name,
		Candidate: cand.Name,
		Message:   fmt.Sprintf("assigned %q to %s", c.Name, cand.Name),
	})
}

// pick returns the index of the eligible candidate holding the fewest chores.
// Ties go to the earliest candidate in list order. It returns -1 when nobody is eligible.
func pick(candidates []model.Candidate, chore string) int {
	best := -1
	for i := range candidates {
		if candidates[i].RecentlyDid(chore) {
			continue
		}
		if best < 0 || len(candidates[i].AssignedChores) < len(candidates[best].AssignedChores) {
			best = i
		}
	}
	return best
}

func (r *Result) emit(e model.Event) {
	slog.Debug("cycle event", "kind", e.Kind, "chore", e.Chore, "candidate", e.Candidate)
	r.Events = append(r.Events, e)
}
