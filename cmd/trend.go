package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/report"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <name>",
	Short: "Show a player's figures match by match",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetPlayerTrend(name)
	if err != nil {
		return fmt.Errorf("query trend: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No stored innings for %q\n", name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s — %d innings\n\n", name, len(rows))
	report.PrintPlayerTrend(os.Stdout, rows)
	return nil
}
