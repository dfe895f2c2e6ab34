package model

import (
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "Daily"
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiweekly Frequency = "Biweekly"
	FrequencyMonthly  Frequency = "Monthly"

	DefaultFrequency = FrequencyWeekly
)

var frequencyDays = map[Frequency]int{
	FrequencyDaily:    1,
	FrequencyWeekly:   7,
	FrequencyBiweekly: 14,
	FrequencyMonthly:  30,
}

// ParseFrequency matches s case-insensitively against the known frequencies and
// returns the canonical spelling.
func ParseFrequency(s string) (Frequency, bool) {
	s = strings.TrimSpace(s)
	for f := range frequencyDays {
		if strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return Frequency(s), false
}

// Valid reports whether f is one of the canonical frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyDays[f]
	return ok
}

// Interval is the cooldown in whole days before a chore can be reassigned.
// Unknown frequencies use the default interval.
func (f Frequency) Interval() int {
	if d, ok := frequencyDays[f]; ok {
		return d
	}
	return frequencyDays[DefaultFrequency]
}

type Chore struct {
	Name           string     `json:"name"`
	Frequency      Frequency  `json:"completion_frequency"`
	Assignees      []string   `json:"assignees"`
	AssignmentTime *time.Time `json:"assignment_time"`
	Completed      bool       `json:"completion_status"`
}

// LastAssignee returns the most recent name in the assignee history, or "".
func (c *Chore) LastAssignee() string {
	if len(c.Assignees) == 0 {
		return ""
	}
	return c.Assignees[len(c.Assignees)-1]
}

// Clone returns a deep copy of the chore.
func (c Chore) Clone() Chore {
	out := c
	out.Assignees = cloneNames(c.Assignees)
	if c.AssignmentTime != nil {
		t := *c.AssignmentTime
		out.AssignmentTime = &t
	}
	return out
}
