package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var dropForce bool

// dropCmd deletes stored data: one match, or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop [match-id-prefix]",
	Short: "Delete one stored match, or the whole database",
	Long: `With a match id prefix, deletes that match and its derived rows.
Without arguments, permanently deletes the SQLite database file.
Re-ingest your match files afterwards to rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return dropOne(args[0])
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOne(prefix string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete match %s and its rows.\n", match.MatchID)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DropMatch(match.MatchID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", match.MatchID)
	return nil
}
