package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/chorewheel/internal/chore"
	"github.com/dukerupert/chorewheel/internal/model"
	"github.com/dukerupert/chorewheel/internal/scheduler"
	"github.com/dukerupert/chorewheel/internal/sheet"
	"github.com/dukerupert/chorewheel/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// table lays out rows in left-aligned columns under a bold header.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = cells[i]
			}
			c += strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			if style != nil {
				c = style.Render(c)
			}
			parts[i] = c
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	var b strings.Builder
	b.WriteString(line(headers, &headerStyle))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(line(row, nil))
		b.WriteByte('\n')
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderCandidates(candidates []model.Candidate) string {
	if len(candidates) == 0 {
		return mutedStyle.Render("no candidates") + "\n"
	}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		var days []string
		for i, d := range c.Availability {
			if strings.TrimSpace(d) != "" {
				days = append(days, model.Weekdays[i]+" "+d)
			}
		}
		rows = append(rows, []string{
			c.Name,
			orDash(c.Email),
			orDash(strings.Join(days, "; ")),
			orDash(sheet.JoinNames(c.AssignedChores)),
			orDash(sheet.JoinNames(c.RecentlyCompleted)),
		})
	}
	return table([]string{"NAME", "EMAIL", "AVAILABILITY", "ASSIGNED", "RECENTLY COMPLETED"}, rows)
}

func renderChores(chores []model.Chore, now time.Time) string {
	if len(chores) == 0 {
		return mutedStyle.Render("no chores") + "\n"
	}
	rows := make([][]string, 0, len(chores))
	for _, c := range chores {
		status, err := chore.ComputeStatus(c, now)
		statusText := string(status)
		if err != nil {
			statusText = warnStyle.Render("invalid frequency")
		}
		next := "now"
		if t := chore.NextDue(c, now); t != nil {
			next = t.Local().Format("Mon Jan 2 15:04")
		}
		last := "-"
		if c.AssignmentTime != nil {
			last = c.AssignmentTime.Local().Format("2006-01-02 15:04")
		}
		done := "no"
		if c.Completed {
			done = "yes"
		}
		rows = append(rows, []string{
			c.Name,
			string(c.Frequency),
			orDash(c.LastAssignee()),
			last,
			done,
			statusText,
			next,
		})
	}
	return table([]string{"CHORE", "FREQUENCY", "ASSIGNEE", "ASSIGNED AT", "DONE", "STATUS", "NEXT DUE"}, rows)
}

func renderEvent(e model.Event) string {
	line := e.String()
	switch {
	case e.IsError():
		return errorStyle.Render(line)
	case e.IsWarning():
		return warnStyle.Render(line)
	}
	return line
}

func renderLog(entries []store.LogEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("log is empty") + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		ev := model.Event{At: e.LoggedAt, Kind: e.Kind, Message: e.Message}
		fmt.Fprintf(&b, "%s %s\n", mutedStyle.Render(shortID(e.RunID)), renderEvent(ev))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderReport(r *scheduler.Report) string {
	title := fmt.Sprintf("Run %s", shortID(r.RunID))
	if r.DryRun {
		title += " (dry run)"
	}

	lines := []string{headerStyle.Render(title)}
	for _, e := range r.Events {
		lines = append(lines, renderEvent(e))
	}
	if len(r.Events) == 0 {
		lines = append(lines, mutedStyle.Render("nothing was due"))
	}

	summary := fmt.Sprintf("%d assigned · %d events · %d errors", r.Assigned, len(r.Events), r.Errors())
	if r.Backup != nil {
		summary += fmt.Sprintf(" · snapshot #%d %s", r.Backup.ID, r.Backup.Status)
	}
	if n := r.Notified; n.Sent+n.Failed+n.Skipped > 0 {
		summary += fmt.Sprintf(" · %d emailed, %d failed", n.Sent, n.Failed)
	}
	lines = append(lines, mutedStyle.Render(summary))

	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func renderBackups(backups []model.Backup) string {
	if len(backups) == 0 {
		return mutedStyle.Render("no snapshots") + "\n"
	}
	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		status := string(b.Status)
		if b.Status == model.BackupStatusFailed {
			status = errorStyle.Render(status + ": " + b.ErrorMessage)
		}
		enc := "no"
		if b.Encrypted {
			enc = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.ID),
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
			shortID(b.RunID),
			b.Filename,
			fmt.Sprintf("%d", b.SizeBytes),
			enc,
			status,
		})
	}
	return table([]string{"ID", "CREATED", "RUN", "FILE", "BYTES", "ENCRYPTED", "STATUS"}, rows)
}

func renderRowErrors(errs []*sheet.RowError) string {
	var b strings.Builder
	for _, e := range errs {
		style := warnStyle
		if e.Skipped {
			style = errorStyle
		}
		b.WriteString(style.Render(e.Error()))
		b.WriteByte('\n')
	}
	return b.String()
}
