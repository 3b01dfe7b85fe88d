package sink

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

func TestWriteFeatureCSV(t *testing.T) {
	rrr := 7.5
	rows := []model.FeatureRow{
		{
			BallRow: model.BallRow{
				MatchID: "m1", Innings: 1, InningsTeam: "Alpha",
				Over: 0, BallInOver: 1, Seq: 1,
				Batter: "A", Bowler: "X", NonStriker: "B",
				BatterRuns: 4, TotalRuns: 4, IsValid: true,
			},
			Phase: "powerplay", PhaseWeight: 1.0,
			BatRollingRuns: 4, BatRollingBalls: 1, BatStrikeRate: 400,
			RequiredRunRate: &rrr,
			NextBallRuns:    1,
		},
		{
			BallRow: model.BallRow{
				MatchID: "m1", Innings: 1, InningsTeam: "Alpha",
				Over: 19, BallInOver: 6, Seq: 120,
				Batter: "A", Bowler: "X",
			},
			Phase: "death", PhaseWeight: 2.0,
			RequiredRunRate: nil,
			NextBallWicket:  true,
		},
	}

	var sb strings.Builder
	if err := WriteFeatureCSV(&sb, rows); err != nil {
		t.Fatalf("WriteFeatureCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want header + 2 rows", len(records))
	}
	if len(records[0]) != len(FeatureHeader) {
		t.Errorf("header width = %d, want %d", len(records[0]), len(FeatureHeader))
	}

	col := func(name string) int {
		for i, h := range FeatureHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("no column %q", name)
		return -1
	}

	if got := records[1][col("required_run_rate")]; got != "7.5" {
		t.Errorf("row 1 required_run_rate = %q, want 7.5", got)
	}
	// Undefined rate renders empty, not zero.
	if got := records[2][col("required_run_rate")]; got != "" {
		t.Errorf("row 2 required_run_rate = %q, want empty", got)
	}
	if got := records[2][col("next_ball_wicket")]; got != "1" {
		t.Errorf("row 2 next_ball_wicket = %q, want 1", got)
	}
	if got := records[1][col("is_valid")]; got != "1" {
		t.Errorf("row 1 is_valid = %q, want 1", got)
	}
}

func TestWriteFlatCSV(t *testing.T) {
	rows := []model.FlatRow{
		{
			MatchID: "m1", Date: "2024-06-01", Team1: "Alpha", Team2: "Beta",
			Innings: 1, InningsTeam: "Alpha", Player: "A",
			BatRuns: 50, BatBallsFaced: 30, StrikeRate: 166.67,
		},
	}

	var sb strings.Builder
	if err := WriteFlatCSV(&sb, rows); err != nil {
		t.Fatalf("WriteFlatCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want header + 1 row", len(records))
	}
	if len(records[1]) != len(FlatHeader) {
		t.Errorf("row width = %d, want %d", len(records[1]), len(FlatHeader))
	}
	if records[1][0] != "m1" {
		t.Errorf("match_id = %q, want m1", records[1][0])
	}
}
