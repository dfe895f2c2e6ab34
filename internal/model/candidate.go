package model

import "slices"

// Weekdays lists the availability columns in sheet order.
var Weekdays = [5]string{"mon", "tues", "wed", "thurs", "fri"}

type Candidate struct {
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	Availability      [5]string `json:"availability"`
	AssignedChores    []string  `json:"assigned_chores"`
	RecentlyCompleted []string  `json:"recently_completed"`
}

// Holds reports whether the candidate currently has the named chore.
func (c *Candidate) Holds(chore string) bool {
	return slices.Contains(c.AssignedChores, chore)
}

// RecentlyDid reports whether the chore is in the candidate's recently-completed set.
func (c *Candidate) RecentlyDid(chore string) bool {
	return slices.Contains(c.RecentlyCompleted, chore)
}

// Take appends the chore to the assigned list and adds it to the
// recently-completed set. Both lists are sets in insertion order, so a chore
// the candidate already holds is not listed twice.
func (c *Candidate) Take(chore string) {
	if !c.Holds(chore) {
		c.AssignedChores = append(c.AssignedChores, chore)
	}
	c.RecentlyCompleted = appendUnique(c.RecentlyCompleted, chore)
}

// Forget removes the chore from the recently-completed set if present.
func (c *Candidate) Forget(chore string) bool {
	n := len(c.RecentlyCompleted)
	c.RecentlyCompleted = slices.DeleteFunc(c.RecentlyCompleted, func(s string) bool { return s == chore })
	return len(c.RecentlyCompleted) != n
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	out.AssignedChores = cloneNames(c.AssignedChores)
	out.RecentlyCompleted = cloneNames(c.RecentlyCompleted)
	return out
}

func appendUnique(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(names, name)
}

func cloneNames(names []string) []string {
	if names == nil {
		return nil
	}
	return slices.Clone(names)
}
