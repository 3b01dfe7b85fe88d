package aggregator

import (
	"testing"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

// ball builds a plain delivery: batter runs only, no extras, no wicket.
func ball(batter, bowler string, runs int) model.Delivery {
	return model.Delivery{
		Batter: batter, Bowler: bowler, NonStriker: "NS",
		Runs: model.Runs{Batter: runs, Total: runs},
	}
}

// extraBall builds a delivery carrying one extras key.
func extraBall(batter, bowler, kind string, extraRuns int) model.Delivery {
	return model.Delivery{
		Batter: batter, Bowler: bowler, NonStriker: "NS",
		Runs:   model.Runs{Batter: 0, Extras: extraRuns, Total: extraRuns},
		Extras: map[string]int{kind: extraRuns},
	}
}

// wicketBall builds a delivery on which the striker is dismissed.
func wicketBall(batter, bowler, kind string, fielders ...string) model.Delivery {
	w := model.WicketEvent{Kind: kind, PlayerOut: batter}
	for _, f := range fielders {
		w.Fielders = append(w.Fielders, model.Fielder{Name: f})
	}
	return model.Delivery{
		Batter: batter, Bowler: bowler, NonStriker: "NS",
		Wickets: []model.WicketEvent{w},
	}
}

func innings(team string, deliveries ...model.Delivery) *model.Innings {
	return &model.Innings{
		Team:  team,
		Overs: []model.Over{{Number: 0, Deliveries: deliveries}},
	}
}

// ---- Classify ----

func TestClassify_ValidBall(t *testing.T) {
	cases := []struct {
		name   string
		d      model.Delivery
		valid  bool
		bowler int
	}{
		{"plain dot", ball("A", "X", 0), true, 0},
		{"boundary", ball("A", "X", 4), true, 4},
		{"wide", extraBall("A", "X", "wides", 1), false, 1},
		{"no-ball", extraBall("A", "X", "noballs", 1), false, 1},
		{"bye", extraBall("A", "X", "byes", 2), true, 0},
		{"leg-bye", extraBall("A", "X", "legbyes", 1), true, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Classify(&tc.d)
			if out.IsValidBall != tc.valid {
				t.Errorf("IsValidBall = %v, want %v", out.IsValidBall, tc.valid)
			}
			if out.BowlerRuns != tc.bowler {
				t.Errorf("BowlerRuns = %d, want %d", out.BowlerRuns, tc.bowler)
			}
		})
	}
}

func TestClassify_ZeroValueWideIsStillInvalid(t *testing.T) {
	// Presence of the key matters, not its value.
	d := model.Delivery{Batter: "A", Bowler: "X", Extras: map[string]int{"wides": 0}}
	if Classify(&d).IsValidBall {
		t.Error("delivery with a wides key should not be a valid ball")
	}
}

// ---- AccumulateInnings ----

func TestAccumulateInnings_BattingScenario(t *testing.T) {
	inn := innings("Alpha",
		ball("A", "X", 1),
		ball("A", "X", 4),
		wicketBall("A", "X", "bowled"),
	)
	stats := AccumulateInnings("m1", 1, inn)

	a := stats["A"]
	if a == nil {
		t.Fatal("no stats for batter A")
	}
	if a.Runs != 5 {
		t.Errorf("Runs = %d, want 5", a.Runs)
	}
	if a.BallsFaced != 3 {
		t.Errorf("BallsFaced = %d, want 3", a.BallsFaced)
	}
	if a.Fours != 1 || a.Sixes != 0 {
		t.Errorf("Fours/Sixes = %d/%d, want 1/0", a.Fours, a.Sixes)
	}
	if a.DismissalKind != "bowled" {
		t.Errorf("DismissalKind = %q, want bowled", a.DismissalKind)
	}
	// No fielder listed: the bowler gets the credit.
	if a.OutBy != "X" {
		t.Errorf("OutBy = %q, want X", a.OutBy)
	}
}

func TestAccumulateInnings_CatchCreditsFielder(t *testing.T) {
	inn := innings("Alpha", wicketBall("A", "X", "caught", "F1", "F2"))
	stats := AccumulateInnings("m1", 1, inn)
	if got := stats["A"].OutBy; got != "F1" {
		t.Errorf("OutBy = %q, want first fielder F1", got)
	}
}

func TestAccumulateInnings_WideDoesNotCountAsBall(t *testing.T) {
	inn := innings("Alpha",
		extraBall("A", "X", "wides", 1),
		ball("A", "X", 0),
	)
	stats := AccumulateInnings("m1", 1, inn)

	if got := stats["A"].BallsFaced; got != 1 {
		t.Errorf("batter BallsFaced = %d, want 1", got)
	}
	if got := stats["X"].BallsBowled; got != 1 {
		t.Errorf("bowler BallsBowled = %d, want 1", got)
	}
	// Wide penalty is charged to the bowler.
	if got := stats["X"].RunsConceded; got != 1 {
		t.Errorf("bowler RunsConceded = %d, want 1", got)
	}
}

func TestAccumulateInnings_ByesNotChargedToBowler(t *testing.T) {
	inn := innings("Alpha",
		extraBall("A", "X", "byes", 4),
		extraBall("A", "X", "legbyes", 1),
	)
	stats := AccumulateInnings("m1", 1, inn)

	if got := stats["X"].RunsConceded; got != 0 {
		t.Errorf("bowler RunsConceded = %d, want 0", got)
	}
	if got := stats["X"].ExtrasConceded; got != 5 {
		t.Errorf("bowler ExtrasConceded = %d, want 5", got)
	}
	if got := stats["X"].BallsBowled; got != 2 {
		t.Errorf("bowler BallsBowled = %d, want 2", got)
	}
}

func TestAccumulateInnings_WicketCredit(t *testing.T) {
	cases := []struct {
		kind     string
		credited bool
	}{
		{"bowled", true},
		{"caught", true},
		{"caught and bowled", true},
		{"lbw", true},
		{"stumped", true},
		{"hit wicket", true},
		{"run out", false},
		{"retired hurt", false},
		{"obstructing the field", false},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			inn := innings("Alpha", wicketBall("A", "X", tc.kind, "F1"))
			stats := AccumulateInnings("m1", 1, inn)
			want := 0
			if tc.credited {
				want = 1
			}
			if got := stats["X"].Wickets; got != want {
				t.Errorf("Wickets = %d, want %d", got, want)
			}
		})
	}
}

func TestAccumulateInnings_BowlerOnlyPlayerHasZeroBatting(t *testing.T) {
	inn := innings("Alpha", ball("A", "X", 2))
	stats := AccumulateInnings("m1", 1, inn)

	x := stats["X"]
	if x == nil {
		t.Fatal("no stats for bowler X")
	}
	if x.Runs != 0 || x.BallsFaced != 0 {
		t.Errorf("bowler batting fields = %d/%d, want zero", x.Runs, x.BallsFaced)
	}
}

// ---- AssembleMatch ----

func testMatch() *model.Match {
	return &model.Match{
		ID: "m1",
		Info: model.MatchInfo{
			Date:  "2024-06-01",
			Teams: []string{"Alpha", "Beta"},
		},
		Innings: []model.Innings{
			{Team: "Alpha", Overs: []model.Over{
				{Number: 0, Deliveries: []model.Delivery{
					ball("A", "X", 1),
					ball("B", "X", 4),
					ball("B", "X", 6),
				}},
				{Number: 1, Deliveries: []model.Delivery{
					wicketBall("B", "Y", "bowled"),
				}},
			}},
			{Team: "Beta", Overs: []model.Over{
				{Number: 0, Deliveries: []model.Delivery{
					ball("X", "A", 2),
					extraBall("X", "A", "wides", 1),
				}},
			}},
		},
	}
}

func TestAssembleMatch_FlatRows(t *testing.T) {
	flat, _, _, err := AssembleMatch(testMatch())
	if err != nil {
		t.Fatalf("AssembleMatch: %v", err)
	}

	var b *model.FlatRow
	for i := range flat {
		if flat[i].Player == "B" && flat[i].Innings == 1 {
			b = &flat[i]
		}
	}
	if b == nil {
		t.Fatal("no flat row for B in innings 1")
	}
	if b.BatRuns != 10 || b.BatBallsFaced != 3 {
		t.Errorf("B runs/balls = %d/%d, want 10/3", b.BatRuns, b.BatBallsFaced)
	}
	wantSR := 10.0 / 3.0 * 100
	if b.StrikeRate < wantSR-0.01 || b.StrikeRate > wantSR+0.01 {
		t.Errorf("B StrikeRate = %.2f, want %.2f", b.StrikeRate, wantSR)
	}
	if b.Team1 != "Alpha" || b.Team2 != "Beta" {
		t.Errorf("teams = %s/%s, want Alpha/Beta", b.Team1, b.Team2)
	}
}

func TestAssembleMatch_BallRowOrdering(t *testing.T) {
	_, balls, _, err := AssembleMatch(testMatch())
	if err != nil {
		t.Fatalf("AssembleMatch: %v", err)
	}
	if len(balls) != 6 {
		t.Fatalf("len(balls) = %d, want 6", len(balls))
	}

	// Seq restarts per innings and runs in delivery order.
	seq := 0
	for _, b := range balls {
		if b.Innings == 1 {
			seq++
			if b.Seq != seq {
				t.Errorf("innings 1 Seq = %d, want %d", b.Seq, seq)
			}
		}
	}
	last := balls[3]
	if !last.WicketFell || last.WicketKind != "bowled" {
		t.Errorf("ball 4 wicket = %v/%q, want true/bowled", last.WicketFell, last.WicketKind)
	}
	if last.Over != 1 || last.BallInOver != 1 {
		t.Errorf("ball 4 over/ball = %d/%d, want 1/1", last.Over, last.BallInOver)
	}

	wide := balls[5]
	if wide.IsValid {
		t.Error("wide should not be a valid ball")
	}
}

func TestAssembleMatch_InningsSummaries(t *testing.T) {
	_, _, summaries, err := AssembleMatch(testMatch())
	if err != nil {
		t.Fatalf("AssembleMatch: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len(summaries) = %d, want 2", len(summaries))
	}

	s1 := summaries[0]
	if s1.TotalRuns != 11 || s1.WicketsLost != 1 {
		t.Errorf("innings 1 = %d/%d, want 11/1", s1.TotalRuns, s1.WicketsLost)
	}
	s2 := summaries[1]
	if s2.TotalRuns != 3 || s2.Extras != 1 || s2.RunsFromBat != 2 {
		t.Errorf("innings 2 total/extras/bat = %d/%d/%d, want 3/1/2", s2.TotalRuns, s2.Extras, s2.RunsFromBat)
	}
}

func TestAssembleMatch_NilMatch(t *testing.T) {
	if _, _, _, err := AssembleMatch(nil); err == nil {
		t.Error("expected error for nil match")
	}
}
