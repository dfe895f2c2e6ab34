package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "List and restore pre-run snapshots",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent snapshots",
		Args:  cobra.NoArgs,
		RunE:  runBackupList,
	}
	list.Flags().IntP("limit", "l", 20, "Max snapshots to show")

	restore := &cobra.Command{
		Use:   "restore [id]",
		Short: "Show a snapshot, or write it back with --apply",
		Args:  cobra.ExactArgs(1),
		RunE:  runBackupRestore,
	}
	restore.Flags().String("passphrase", "", "Passphrase for encrypted snapshots (default: from config)")
	restore.Flags().Bool("apply", false, "Replace the current records with the snapshot")

	cmd.AddCommand(list, restore)
	RootCmd.AddCommand(cmd)
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	backups, err := newBackupManager(db).List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	fmt.Print(renderBackups(backups))
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("parse id: %w", err)
	}
	passphrase, _ := cmd.Flags().GetString("passphrase")
	apply, _ := cmd.Flags().GetBool("apply")

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	snap, err := newBackupManager(db).Restore(cmd.Context(), id, passphrase)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Snapshot #%d taken %s", id, snap.TakenAt.Local().Format("2006-01-02 15:04"))))
	fmt.Print(renderCandidates(snap.Candidates))
	fmt.Println()
	fmt.Print(renderChores(snap.Chores, snap.TakenAt))

	if !apply {
		fmt.Println(mutedStyle.Render("use --apply to write these records back"))
		return nil
	}

	records := store.NewSheetStore(db)
	if err := records.SaveCandidates(cmd.Context(), snap.Candidates); err != nil {
		return fmt.Errorf("save candidates: %w", err)
	}
	if err := records.SaveChores(cmd.Context(), snap.Chores); err != nil {
		return fmt.Errorf("save chores: %w", err)
	}
	fmt.Printf("restored %d candidates and %d chores\n", len(snap.Candidates), len(snap.Chores))
	return nil
}
