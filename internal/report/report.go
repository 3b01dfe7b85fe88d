// Package report renders match, player, and query results as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintMatchHeader prints a one-line summary header for the match.
func PrintMatchHeader(w io.Writer, s model.MatchSummary) {
	teams := "?"
	if len(s.Teams) >= 2 {
		teams = fmt.Sprintf("%s vs %s", s.Teams[0], s.Teams[1])
	}
	fmt.Fprintf(w, "\n%s  |  %s  |  %s  |  %s", teams, s.Date, s.EventName, s.Venue)
	if s.ResultWinner != "" {
		fmt.Fprintf(w, "  |  %s won by %s", s.ResultWinner, s.ResultBy)
	} else if s.ResultBy != "" {
		fmt.Fprintf(w, "  |  %s", s.ResultBy)
	}
	fmt.Fprintf(w, "\n\n")
}

// PrintMatchList prints the stored matches as a table.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("MATCH_ID", "DATE", "EVENT", "#", "TEAMS", "VENUE", "RESULT")

	for _, m := range matches {
		teams := ""
		if len(m.Teams) >= 2 {
			teams = fmt.Sprintf("%s v %s", m.Teams[0], m.Teams[1])
		}
		result := m.ResultBy
		if m.ResultWinner != "" {
			result = fmt.Sprintf("%s by %s", m.ResultWinner, m.ResultBy)
		}
		table.Append(m.MatchID, m.Date, m.EventName, strconv.Itoa(m.MatchNumber), teams, m.Venue, result)
	}
	table.Render()
}

// PrintInningsSummaries prints per-innings scorelines.
func PrintInningsSummaries(w io.Writer, summaries []model.InningsSummary) {
	table := newTable(w)
	table.Header("INN", "TEAM", "SCORE", "FROM_BAT", "EXTRAS", "OVERS")

	for _, s := range summaries {
		table.Append(
			strconv.Itoa(s.Innings),
			s.Team,
			fmt.Sprintf("%d/%d", s.TotalRuns, s.WicketsLost),
			strconv.Itoa(s.RunsFromBat),
			strconv.Itoa(s.Extras),
			strconv.Itoa(s.OversBowled),
		)
	}
	table.Render()
}

// PrintBattingTable prints the batting card for one innings. Rows should
// already be filtered to a single innings and ordered.
func PrintBattingTable(w io.Writer, rows []model.FlatRow) {
	table := newTable(w)
	table.Header("BATTER", "R", "B", "4s", "6s", "SR", "DISMISSAL", "OUT_BY")

	for _, r := range rows {
		if r.BatBallsFaced == 0 && r.BatRuns == 0 && !r.IsOut() {
			continue
		}
		dismissal := "not out"
		if r.IsOut() {
			dismissal = r.BatDismissal
		}
		sr := "—"
		if r.BatBallsFaced > 0 {
			sr = fmt.Sprintf("%.1f", r.StrikeRate)
		}
		table.Append(
			r.Player,
			strconv.Itoa(r.BatRuns),
			strconv.Itoa(r.BatBallsFaced),
			strconv.Itoa(r.Bat4s),
			strconv.Itoa(r.Bat6s),
			sr,
			dismissal,
			r.BatOutBy,
		)
	}
	table.Render()
}

// PrintBowlingTable prints the bowling card for one innings.
func PrintBowlingTable(w io.Writer, rows []model.FlatRow) {
	table := newTable(w)
	table.Header("BOWLER", "O", "R", "W", "ECON", "EXTRAS")

	for _, r := range rows {
		if r.BowlBallsBowled == 0 {
			continue
		}
		table.Append(
			r.Player,
			fmt.Sprintf("%.1f", r.OversBowled()),
			strconv.Itoa(r.BowlRunsConceded),
			strconv.Itoa(r.BowlWickets),
			fmt.Sprintf("%.2f", r.Economy),
			strconv.Itoa(r.BowlExtras),
		)
	}
	table.Render()
}

// PrintPlayerAggregate prints one player's career figures across all stored matches.
func PrintPlayerAggregate(w io.Writer, a *model.PlayerAggregate) {
	fmt.Fprintf(w, "\n%s  |  %d match(es)\n\n", a.Player, a.Matches)

	bat := newTable(w)
	bat.Header("INN", "RUNS", "BALLS", "4s", "6s", "SR", "AVG", "OUTS")
	bat.Append(
		strconv.Itoa(a.InningsBatted),
		strconv.Itoa(a.Runs),
		strconv.Itoa(a.BallsFaced),
		strconv.Itoa(a.Fours),
		strconv.Itoa(a.Sixes),
		fmt.Sprintf("%.1f", a.StrikeRate()),
		fmt.Sprintf("%.1f", a.BattingAverage()),
		strconv.Itoa(a.Dismissals),
	)
	bat.Render()

	if a.InningsBowled > 0 {
		bowl := newTable(w)
		bowl.Header("INN", "OVERS", "RUNS", "W", "ECON", "AVG")
		avg := "—"
		if a.Wickets > 0 {
			avg = fmt.Sprintf("%.1f", a.BowlingAverage())
		}
		bowl.Append(
			strconv.Itoa(a.InningsBowled),
			fmt.Sprintf("%.1f", float64(a.BallsBowled)/6),
			strconv.Itoa(a.RunsConceded),
			strconv.Itoa(a.Wickets),
			fmt.Sprintf("%.2f", a.Economy()),
			avg,
		)
		bowl.Render()
	}
}

// PrintPlayerTrend prints a player's per-innings figures match by match.
func PrintPlayerTrend(w io.Writer, rows []storage.PlayerTrendRow) {
	table := newTable(w)
	table.Header("DATE", "MATCH", "INN", "RUNS", "BALLS", "SR", "W", "ECON")

	for _, r := range rows {
		sr := "—"
		if r.BallsFaced > 0 {
			sr = fmt.Sprintf("%.1f", r.StrikeRate)
		}
		econ := "—"
		if r.Economy > 0 {
			econ = fmt.Sprintf("%.2f", r.Economy)
		}
		table.Append(
			r.Date,
			r.MatchID,
			strconv.Itoa(r.Innings),
			strconv.Itoa(r.Runs),
			strconv.Itoa(r.BallsFaced),
			sr,
			strconv.Itoa(r.Wickets),
			econ,
		)
	}
	table.Render()
}

// PrintBallTable prints deliveries as a table, one row per ball.
func PrintBallTable(w io.Writer, rows []model.BallRow) {
	table := newTable(w)
	table.Header("INN", "OVER", "BALL", "BATTER", "BOWLER", "RUNS", "TOTAL", "VALID", "WICKET")

	for _, r := range rows {
		wicket := ""
		if r.WicketFell {
			wicket = r.WicketKind
		}
		valid := "y"
		if !r.IsValid {
			valid = "n"
		}
		table.Append(
			strconv.Itoa(r.Innings),
			strconv.Itoa(r.OverNumber()),
			strconv.Itoa(r.BallInOver),
			r.Batter,
			r.Bowler,
			strconv.Itoa(r.BatterRuns),
			strconv.Itoa(r.TotalRuns),
			valid,
			wicket,
		)
	}
	table.Render()
}

// PrintQueryResult prints a raw SQL result set.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		rec := make([]any, len(r))
		for i, v := range r {
			rec[i] = v
		}
		table.Append(rec...)
	}
	table.Render()
}
