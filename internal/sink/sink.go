// Package sink writes derived tables to CSV for downstream model training.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

// FeatureHeader is the column order of the feature CSV.
var FeatureHeader = []string{
	"match_id", "innings", "innings_team", "over", "ball_in_over", "seq",
	"batter", "bowler", "non_striker",
	"batter_runs", "total_runs", "extras_runs", "is_valid",
	"wicket_fell", "wicket_kind",
	"phase", "phase_weight",
	"bat_rolling_runs", "bat_rolling_balls", "bat_strike_rate", "bat_boundary_pct", "bat_dot_pct",
	"bowl_rolling_runs", "bowl_rolling_balls", "bowl_economy", "bowl_wicket_pct",
	"innings_runs_cum", "innings_wkts_cum", "wickets_in_hand", "required_run_rate", "pressure_index",
	"next_ball_runs", "next_ball_wicket",
}

// WriteFeatureCSV writes feature rows to w with a header line. The
// required run rate renders as an empty field when undefined.
func WriteFeatureCSV(w io.Writer, rows []model.FeatureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeatureHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		r := &rows[i]
		rrr := ""
		if r.RequiredRunRate != nil {
			rrr = formatFloat(*r.RequiredRunRate)
		}
		rec := []string{
			r.MatchID, strconv.Itoa(r.Innings), r.InningsTeam,
			strconv.Itoa(r.Over), strconv.Itoa(r.BallInOver), strconv.Itoa(r.Seq),
			r.Batter, r.Bowler, r.NonStriker,
			strconv.Itoa(r.BatterRuns), strconv.Itoa(r.TotalRuns), strconv.Itoa(r.ExtrasRuns),
			formatBool(r.IsValid),
			formatBool(r.WicketFell), r.WicketKind,
			r.Phase, formatFloat(r.PhaseWeight),
			strconv.Itoa(r.BatRollingRuns), strconv.Itoa(r.BatRollingBalls),
			formatFloat(r.BatStrikeRate), formatFloat(r.BatBoundaryPct), formatFloat(r.BatDotPct),
			strconv.Itoa(r.BowlRollingRuns), strconv.Itoa(r.BowlRollingBalls),
			formatFloat(r.BowlEconomy), formatFloat(r.BowlWicketPct),
			strconv.Itoa(r.InningsRunsCum), strconv.Itoa(r.InningsWktsCum),
			strconv.Itoa(r.WicketsInHand), rrr, formatFloat(r.PressureIndex),
			strconv.Itoa(r.NextBallRuns), formatBool(r.NextBallWicket),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s/%d/%d: %w", r.MatchID, r.Innings, r.Seq, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FlatHeader is the column order of the per-player innings CSV.
var FlatHeader = []string{
	"match_id", "date", "event_name", "match_number",
	"team1", "team2", "venue", "city",
	"toss_winner", "toss_decision", "result_winner", "result_by", "player_of_match",
	"innings", "innings_team", "player",
	"bat_runs", "bat_balls_faced", "bat_4s", "bat_6s", "bat_dismissal", "bat_out_by",
	"bowl_runs_conceded", "bowl_balls_bowled", "bowl_wickets", "bowl_extras",
	"strike_rate", "economy",
}

// WriteFlatCSV writes per-player innings rows to w with a header line.
func WriteFlatCSV(w io.Writer, rows []model.FlatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FlatHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		r := &rows[i]
		rec := []string{
			r.MatchID, r.Date, r.EventName, strconv.Itoa(r.MatchNumber),
			r.Team1, r.Team2, r.Venue, r.City,
			r.TossWinner, r.TossDecision, r.ResultWinner, r.ResultBy, r.PlayerOfMatch,
			strconv.Itoa(r.Innings), r.InningsTeam, r.Player,
			strconv.Itoa(r.BatRuns), strconv.Itoa(r.BatBallsFaced),
			strconv.Itoa(r.Bat4s), strconv.Itoa(r.Bat6s), r.BatDismissal, r.BatOutBy,
			strconv.Itoa(r.BowlRunsConceded), strconv.Itoa(r.BowlBallsBowled),
			strconv.Itoa(r.BowlWickets), strconv.Itoa(r.BowlExtras),
			formatFloat(r.StrikeRate), formatFloat(r.Economy),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s/%d/%s: %w", r.MatchID, r.Innings, r.Player, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
