package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/report"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id-prefix>",
	Short: "Show stored match scorecards by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := args[0]

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

	return showMatch(db, match)
}

func showMatch(db *storage.DB, match *model.MatchSummary) error {
	rows, err := db.GetFlatRows(match.MatchID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	summaries, err := db.GetInningsSummaries(match.MatchID)
	if err != nil {
		return fmt.Errorf("get innings summaries: %w", err)
	}

	report.PrintMatchHeader(os.Stdout, *match)
	report.PrintInningsSummaries(os.Stdout, summaries)

	for _, s := range summaries {
		var batting, bowling []model.FlatRow
		for _, r := range rows {
			if r.Innings == s.Innings {
				batting = append(batting, r)
			}
			// Bowlers belong to the fielding side but are keyed by the
			// innings they bowled in.
			if r.Innings == s.Innings && r.BowlBallsBowled > 0 {
				bowling = append(bowling, r)
			}
		}
		fmt.Fprintf(os.Stdout, "\nInnings %d — %s\n\n", s.Innings, s.Team)
		report.PrintBattingTable(os.Stdout, batting)
		fmt.Fprintln(os.Stdout)
		report.PrintBowlingTable(os.Stdout, bowling)
	}
	return nil
}
