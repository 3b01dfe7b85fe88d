package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/report"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match database",
	Long: `Run an arbitrary read query against the match database and print results as a table.

Schema overview:
  matches(match_id, match_date, event_name, match_number, team1, team2,
    venue, city, toss_winner, toss_decision, result_winner, result_by, player_of_match)
  player_innings_stats(match_id, innings, innings_team, player, bat_runs,
    bat_balls_faced, bat_4s, bat_6s, bat_dismissal, bat_out_by,
    bowl_runs_conceded, bowl_balls_bowled, bowl_wickets, bowl_extras, strike_rate, economy)
  deliveries(match_id, innings, seq, innings_team, over_idx, ball_in_over,
    batter, bowler, non_striker, batter_runs, total_runs, extras_runs,
    is_valid, wicket_fell, wicket_kind)

Note: over_idx is 0-based; ball_in_over and seq are 1-based.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
