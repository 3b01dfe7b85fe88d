package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/report"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var ballsInnings int

var ballsCmd = &cobra.Command{
	Use:   "balls <match-id-prefix>",
	Short: "Show a match's deliveries ball by ball",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalls,
}

func init() {
	ballsCmd.Flags().IntVar(&ballsInnings, "innings", 0, "restrict to one innings (1 or 2)")
}

func runBalls(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", args[0])
		return nil
	}

	rows, err := db.GetBallRows(match.MatchID)
	if err != nil {
		return fmt.Errorf("get deliveries: %w", err)
	}
	if ballsInnings > 0 {
		filtered := make([]model.BallRow, 0, len(rows))
		for _, r := range rows {
			if r.Innings == ballsInnings {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	report.PrintMatchHeader(os.Stdout, *match)
	report.PrintBallTable(os.Stdout, rows)
	return nil
}
