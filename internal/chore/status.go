package chore

import (
	"errors"
	"time"

	"github.com/dukerupert/chorewheel/internal/model"
)

type Status string

const (
	StatusUnassigned Status = "unassigned"
	StatusCooldown   Status = "cooldown"
	StatusDue        Status = "due"
)

// ErrInvalidFrequency is returned by ComputeStatus when the chore's frequency is not recognized.
var ErrInvalidFrequency = errors.New("invalid completion frequency")

// ElapsedDays returns the number of whole 24-hour days from since to now.
// It is negative when since is after now.
func ElapsedDays(since, now time.Time) int {
	d := now.Sub(since)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// ComputeStatus determines where a chore is in its assignment lifecycle.
// An unrecognized frequency yields StatusDue together with ErrInvalidFrequency.
func ComputeStatus(c model.Chore, now time.Time) (Status, error) {
	if !c.Frequency.Valid() {
		return StatusDue, ErrInvalidFrequency
	}
	if c.AssignmentTime == nil {
		return StatusUnassigned, nil
	}
	if ElapsedDays(*c.AssignmentTime, now) >= c.Frequency.Interval() {
		return StatusDue, nil
	}
	return StatusCooldown, nil
}

// IsDue reports whether the chore should be (re)assigned at now.
func IsDue(c model.Chore, now time.Time) bool {
	status, _ := ComputeStatus(c, now)
	return status != StatusCooldown
}

// NextDue returns when the chore leaves its cooldown, or nil if it is already due.
func NextDue(c model.Chore, now time.Time) *time.Time {
	if IsDue(c, now) {
		return nil
	}
	next := c.AssignmentTime.Add(time.Duration(c.Frequency.Interval()) * 24 * time.Hour)
	return &next
}
