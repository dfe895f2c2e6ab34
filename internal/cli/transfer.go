package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/store"
)

func init() {
	imp := &cobra.Command{
		Use:   "import",
		Short: "Load candidates.json and chores.json into the database",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
	imp.Flags().String("dir", "", "Directory holding the JSON files (default: mirror_dir from config)")

	exp := &cobra.Command{
		Use:   "export",
		Short: "Write the database records to candidates.json and chores.json",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exp.Flags().String("dir", "", "Directory to write the JSON files (default: mirror_dir from config)")

	RootCmd.AddCommand(imp, exp)
}

func transferDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Mirror
	}
	if dir == "" {
		return "", errors.New("--dir is required when mirror_dir is not configured")
	}
	return dir, nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	dir, err := transferDir(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := copyRecords(cmd.Context(), store.NewFileStore(dir), store.NewSheetStore(db))
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Printf("imported %d candidates and %d chores from %s\n", n.candidates, n.chores, dir)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	dir, err := transferDir(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := copyRecords(cmd.Context(), store.NewSheetStore(db), store.NewFileStore(dir))
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("exported %d candidates and %d chores to %s\n", n.candidates, n.chores, dir)
	return nil
}

type copied struct {
	candidates, chores int
}

// copyRecords loads everything from src and replaces dst with it. Rows src
// could not read cleanly are reported on stderr and copied as corrected.
func copyRecords(ctx context.Context, src, dst store.Records) (copied, error) {
	candidates, candErrs, err := src.LoadCandidates(ctx)
	if err != nil {
		return copied{}, fmt.Errorf("load candidates: %w", err)
	}
	chores, choreErrs, err := src.LoadChores(ctx)
	if err != nil {
		return copied{}, fmt.Errorf("load chores: %w", err)
	}
	fmt.Fprint(os.Stderr, renderRowErrors(append(candErrs, choreErrs...)))

	if err := dst.SaveCandidates(ctx, candidates); err != nil {
		return copied{}, fmt.Errorf("save candidates: %w", err)
	}
	if err := dst.SaveChores(ctx, chores); err != nil {
		return copied{}, fmt.Errorf("save chores: %w", err)
	}
	return copied{candidates: len(candidates), chores: len(chores)}, nil
}
