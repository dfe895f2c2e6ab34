package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/email"
	"github.com/dukerupert/chorewheel/internal/eventlog"
	"github.com/dukerupert/chorewheel/internal/notify"
	"github.com/dukerupert/chorewheel/internal/scheduler"
	"github.com/dukerupert/chorewheel/internal/sheet"
	"github.com/dukerupert/chorewheel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assign due chores once",
		Long: "Load the sheet, assign every due chore, save the sheet, append the event log " +
			"and email the people who got new chores.",
		Args: cobra.NoArgs,
		RunE: runCycle,
	}

	cmd.Flags().String("now", "", "Evaluate due chores as of this time (RFC 3339 or 2006-01-02 15:04)")
	cmd.Flags().Bool("dry-run", false, "Show what would be assigned without saving or emailing")
	cmd.Flags().Bool("no-notify", false, "Save and log but do not send email")

	RootCmd.AddCommand(cmd)
}

func runCycle(cmd *cobra.Command, _ []string) error {
	nowFlag, _ := cmd.Flags().GetString("now")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noNotify, _ := cmd.Flags().GetBool("no-notify")

	now := time.Now()
	if nowFlag != "" {
		t, err := sheet.ParseTime(nowFlag)
		if err != nil {
			return fmt.Errorf("parse --now: %w", err)
		}
		now = t
	}
	dryRun = dryRun || cfg.Run.DryRun
	noNotify = noNotify || cfg.Run.NoNotify

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	records := store.NewSheetStore(db)
	opts := []scheduler.Option{
		scheduler.WithDryRun(dryRun),
		scheduler.WithoutNotify(noNotify),
	}

	var local *eventlog.Logbook
	if cfg.EventLog != "" {
		if local, err = eventlog.NewLogbook(cfg.EventLog); err != nil {
			slog.Warn("local event log unavailable", "path", cfg.EventLog, "error", err)
		}
	}
	opts = append(opts, scheduler.WithPublisher(eventlog.NewPublisher(local, store.NewLogStore(db))))

	if mgr := newBackupManager(db); mgr.Enabled() {
		opts = append(opts, scheduler.WithSnapshots(mgr))
	}

	mailer := email.NewClient(cfg.Email.PostmarkToken, cfg.Email.From)
	if mailer.Configured() {
		opts = append(opts, scheduler.WithDispatcher(notify.NewDispatcher(mailer, cfg.Email.Audit)))
	} else if !noNotify {
		slog.Info("email not configured, skipping notifications")
	}

	ctx := cmd.Context()

	report, err := scheduler.New(records, opts...).RunOnce(ctx, now)
	if report != nil {
		fmt.Print(renderReport(report))
	}
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if cfg.Mirror != "" && !dryRun {
		mirror := store.NewFileStore(cfg.Mirror)
		if err := mirror.SaveCandidates(ctx, report.Candidates); err != nil {
			slog.Warn("update JSON mirror", "dir", cfg.Mirror, "error", err)
		} else if err := mirror.SaveChores(ctx, report.Chores); err != nil {
			slog.Warn("update JSON mirror", "dir", cfg.Mirror, "error", err)
		}
	}
	return nil
}
