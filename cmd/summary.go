package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var summaryTop int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show database overview and all-match leaderboards",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", 10, "leaderboard size")
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	counts, err := db.TableCounts()
	if err != nil {
		return fmt.Errorf("table counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Database: %s\n", dbPath)
	fmt.Fprintf(os.Stdout, "  matches: %d  player innings: %d  deliveries: %d\n\n",
		counts["matches"], counts["player_innings_stats"], counts["deliveries"])

	if counts["matches"] == 0 {
		return nil
	}

	batters, err := db.TopRunScorers(summaryTop)
	if err != nil {
		return fmt.Errorf("top run scorers: %w", err)
	}
	fmt.Fprintln(os.Stdout, "Most runs:")
	printLeaders(batters, "RUNS", "BALLS", func(r storage.LeaderRow) string {
		if r.Balls == 0 {
			return "—"
		}
		return fmt.Sprintf("%.1f", float64(r.Value)/float64(r.Balls)*100)
	}, "SR")

	bowlers, err := db.TopWicketTakers(summaryTop)
	if err != nil {
		return fmt.Errorf("top wicket takers: %w", err)
	}
	fmt.Fprintln(os.Stdout, "\nMost wickets:")
	printLeaders(bowlers, "W", "BALLS", func(r storage.LeaderRow) string {
		if r.Value == 0 {
			return "—"
		}
		return fmt.Sprintf("%.1f", float64(r.Balls)/float64(r.Value))
	}, "SR")

	return nil
}

func printLeaders(rows []storage.LeaderRow, valueCol, ballsCol string, rate func(storage.LeaderRow) string, rateCol string) {
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("PLAYER", "INN", valueCol, ballsCol, rateCol)
	for _, r := range rows {
		table.Append(r.Player, strconv.Itoa(r.Innings), strconv.Itoa(r.Value), strconv.Itoa(r.Balls), rate(r))
	}
	table.Render()
}
