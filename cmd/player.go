package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/report"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show a player's career figures across all stored matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	agg, err := db.GetPlayerAggregate(name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if agg == nil {
		fmt.Fprintf(os.Stderr, "No stored innings for %q\n", name)
		return nil
	}

	report.PrintPlayerAggregate(os.Stdout, agg)
	return nil
}
