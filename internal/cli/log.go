package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/eventlog"
	"github.com/dukerupert/chorewheel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent events",
		Long:  "Print the newest events from the Log tab, or from the local event log file with --local.",
		Args:  cobra.NoArgs,
		RunE:  runLog,
	}

	cmd.Flags().IntP("limit", "l", 50, "Max events to show")
	cmd.Flags().String("run", "", "Only show events of this run id")
	cmd.Flags().Bool("local", false, "Read the local event log file instead of the database")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	local, _ := cmd.Flags().GetBool("local")

	if local {
		book, err := eventlog.NewLogbook(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		lines, err := book.Tail(limit)
		if err != nil {
			return fmt.Errorf("read event log: %w", err)
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	logs := store.NewLogStore(db)
	var entries []store.LogEntry
	if runID != "" {
		entries, err = logs.ListRun(cmd.Context(), runID)
	} else {
		entries, err = logs.List(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("list log: %w", err)
	}
	fmt.Print(renderLog(entries))
	return nil
}
