// Package notify tells people about the chores a run assigned them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/chorewheel/internal/model"
)

// Notifier delivers one message to one recipient.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// Dispatcher composes and sends the messages for a run. Failures are logged and
// counted, never returned.
type Dispatcher struct {
	notifier   Notifier
	auditEmail string
}

// NewDispatcher returns a dispatcher. auditEmail may be empty to skip the digest.
func NewDispatcher(n Notifier, auditEmail string) *Dispatcher {
	return &Dispatcher{notifier: n, auditEmail: strings.TrimSpace(auditEmail)}
}

// Summary counts what Send did.
type Summary struct {
	Sent    int
	Failed  int
	Skipped int
}

// Send emails every candidate who received chores in this run, then sends the
// audit digest of all events.
func (d *Dispatcher) Send(ctx context.Context, candidates []model.Candidate, events []model.Event) Summary {
	var sum Summary
	if d == nil || d.notifier == nil || len(events) == 0 {
		return sum
	}

	emails := make(map[string]string, len(candidates))
	for _, c := range candidates {
		emails[c.Name] = strings.TrimSpace(c.Email)
	}

	for _, a := range groupAssignments(events) {
		to := emails[a.candidate]
		if to == "" {
			slog.Debug("no email for candidate, skipping notice", "candidate", a.candidate)
			sum.Skipped++
			continue
		}
		subject, body := AssignmentMessage(a.candidate, a.chores)
		d.deliver(ctx, to, subject, body, &sum)
	}

	if d.auditEmail != "" {
		subject, body := AuditMessage(events)
		d.deliver(ctx, d.auditEmail, subject, body, &sum)
	}
	return sum
}

func (d *Dispatcher) deliver(ctx context.Context, to, subject, body string, sum *Summary) {
	if err := d.notifier.Notify(ctx, to, subject, body); err != nil {
		slog.Error("send notification", "to", to, "subject", subject, "error", err)
		sum.Failed++
		return
	}
	sum.Sent++
}

type assignment struct {
	candidate string
	chores    []string
}

// groupAssignments collects assigned chores per candidate in first-seen order.
func groupAssignments(events []model.Event) []assignment {
	var out []assignment
	index := make(map[string]int)
	for _, e := range events {
		if e.Kind != model.EventAssigned {
			continue
		}
		i, ok := index[e.Candidate]
		if !ok {
			i = len(out)
			index[e.Candidate] = i
			out = append(out, assignment{candidate: e.Candidate})
		}
		out[i].chores = append(out[i].chores, e.Chore)
	}
	return out
}

// AssignmentMessage is the notice sent to a candidate.
func AssignmentMessage(candidate string, chores []string) (subject, body string) {
	if len(chores) == 1 {
		subject = fmt.Sprintf("New chore: %s", chores[0])
	} else {
		subject = fmt.Sprintf("You have %d new chores", len(chores))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYou have been assigned:\n", candidate)
	for _, c := range chores {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nPlease mark them complete on the chore sheet when done.")
	return subject, b.String()
}

// AuditMessage lists every event of a run.
func AuditMessage(events []model.Event) (subject, body string) {
	assigned := 0
	for _, e := range events {
		if e.Kind == model.EventAssigned {
			assigned++
		}
	}
	subject = fmt.Sprintf("Chore run: %d assigned, %d events", assigned, len(events))

	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return subject, b.String()
}
