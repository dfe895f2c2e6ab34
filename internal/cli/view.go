package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/store"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "candidates",
		Short: "Show the people chores are assigned to",
		Args:  cobra.NoArgs,
		RunE:  runCandidates,
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "chores",
		Short: "Show chores with their due status",
		Args:  cobra.NoArgs,
		RunE:  runChores,
	})
}

func runCandidates(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	candidates, rowErrs, err := store.NewSheetStore(db).LoadCandidates(cmd.Context())
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}
	fmt.Fprint(os.Stderr, renderRowErrors(rowErrs))
	fmt.Print(renderCandidates(candidates))
	return nil
}

func runChores(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	chores, rowErrs, err := store.NewSheetStore(db).LoadChores(cmd.Context())
	if err != nil {
		return fmt.Errorf("load chores: %w", err)
	}
	fmt.Fprint(os.Stderr, renderRowErrors(rowErrs))
	fmt.Print(renderChores(chores, time.Now()))
	return nil
}
