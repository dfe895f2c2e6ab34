package model

import (
	"fmt"
	"time"
)

type EventKind string

const (
	EventAssigned           EventKind = "assigned"
	EventPoolReset          EventKind = "pool_reset"
	EventFrequencyCorrected EventKind = "frequency_corrected"
	EventNoCandidates       EventKind = "no_candidates"
	EventRowSkipped         EventKind = "row_skipped"
	EventRowCorrected       EventKind = "row_corrected"
)

// Event is one line of the run's audit trail.
type Event struct {
	At        time.Time `json:"at"`
	Kind      EventKind `json:"kind"`
	Chore     string    `json:"chore,omitempty"`
	Candidate string    `json:"candidate,omitempty"`
	Message   string    `json:"message"`
}

// IsError reports whether the event describes a problem rather than normal progress.
func (e Event) IsError() bool {
	switch e.Kind {
	case EventNoCandidates, EventRowSkipped:
		return true
	}
	return false
}

// IsWarning reports whether the event records a correction to the data.
func (e Event) IsWarning() bool {
	switch e.Kind {
	case EventFrequencyCorrected, EventRowCorrected, EventPoolReset:
		return true
	}
	return false
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.At.Format("2006-01-02 15:04"), e.Message)
}
