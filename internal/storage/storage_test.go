package storage

import (
	"testing"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testInfo() model.MatchInfo {
	return model.MatchInfo{
		Date:         "2024-06-01",
		EventName:    "Test Cup",
		MatchNumber:  3,
		Teams:        []string{"Alpha", "Beta"},
		Venue:        "Test Ground",
		City:         "Testville",
		TossWinner:   "Alpha",
		TossDecision: "bat",
		ResultWinner: "Alpha",
		ResultBy:     "20 runs",
	}
}

func TestMatchInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists("m1")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}

	exists2, _ := db.MatchExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent match to not exist")
	}
}

func TestInsertMatch_Idempotent(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	matches, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("len(matches) = %d, want 1", len(matches))
	}
}

func TestListMatches_Order(t *testing.T) {
	db := openMemDB(t)

	older := testInfo()
	older.Date = "2024-01-01"
	if err := db.InsertMatch(older, "old"); err != nil {
		t.Fatalf("insert old: %v", err)
	}
	if err := db.InsertMatch(testInfo(), "new"); err != nil {
		t.Fatalf("insert new: %v", err)
	}

	matches, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if matches[0].MatchID != "new" {
		t.Errorf("expected newest first, got %s", matches[0].MatchID)
	}
}

func TestGetMatchByPrefix(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "1384430"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	m, err := db.GetMatchByPrefix("1384")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if m == nil || m.MatchID != "1384430" {
		t.Fatalf("got %v, want match 1384430", m)
	}
	if len(m.Teams) != 2 || m.Teams[0] != "Alpha" {
		t.Errorf("Teams = %v, want [Alpha Beta]", m.Teams)
	}

	none, err := db.GetMatchByPrefix("zzz")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for unknown prefix, got %v", none)
	}
}

func TestFlatRowRoundTrip(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	rows := []model.FlatRow{
		{
			MatchID: "m1", Innings: 1, InningsTeam: "Alpha", Player: "A",
			BatRuns: 50, BatBallsFaced: 30, Bat4s: 6, Bat6s: 2,
			BatDismissal: "caught", BatOutBy: "F1",
			StrikeRate: 166.67,
		},
		{
			MatchID: "m1", Innings: 1, InningsTeam: "Alpha", Player: "X",
			BowlRunsConceded: 24, BowlBallsBowled: 24, BowlWickets: 2, BowlExtras: 3,
			Economy: 6,
		},
	}
	if err := db.InsertFlatRows(rows); err != nil {
		t.Fatalf("InsertFlatRows: %v", err)
	}

	got, err := db.GetFlatRows("m1")
	if err != nil {
		t.Fatalf("GetFlatRows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Ordered by bat_runs desc: A first.
	a := got[0]
	if a.Player != "A" || a.BatRuns != 50 || a.BatDismissal != "caught" {
		t.Errorf("row 0 = %+v, want A with 50 runs caught", a)
	}
	if a.Date != "2024-06-01" || a.Team1 != "Alpha" || a.Team2 != "Beta" {
		t.Errorf("metadata join = %s %s/%s", a.Date, a.Team1, a.Team2)
	}
	x := got[1]
	if x.BowlWickets != 2 || x.Economy != 6 {
		t.Errorf("row 1 = %+v, want X with 2 wickets at 6", x)
	}
}

func TestBallRowRoundTrip(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	rows := []model.BallRow{
		{MatchID: "m1", Innings: 1, Seq: 1, InningsTeam: "Alpha", Over: 0, BallInOver: 1,
			Batter: "A", Bowler: "X", BatterRuns: 4, TotalRuns: 4, IsValid: true},
		{MatchID: "m1", Innings: 1, Seq: 2, InningsTeam: "Alpha", Over: 0, BallInOver: 2,
			Batter: "A", Bowler: "X", TotalRuns: 1, ExtrasRuns: 1},
		{MatchID: "m1", Innings: 2, Seq: 1, InningsTeam: "Beta", Over: 0, BallInOver: 1,
			Batter: "X", Bowler: "A", IsValid: true, WicketFell: true, WicketKind: "bowled"},
	}
	if err := db.InsertBallRows(rows); err != nil {
		t.Fatalf("InsertBallRows: %v", err)
	}

	got, err := db.GetAllBallRows()
	if err != nil {
		t.Fatalf("GetAllBallRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if !got[0].IsValid || got[1].IsValid {
		t.Errorf("IsValid flags = %v/%v, want true/false", got[0].IsValid, got[1].IsValid)
	}
	last := got[2]
	if !last.WicketFell || last.WicketKind != "bowled" {
		t.Errorf("wicket = %v/%q, want true/bowled", last.WicketFell, last.WicketKind)
	}

	one, err := db.GetBallRows("m1")
	if err != nil {
		t.Fatalf("GetBallRows: %v", err)
	}
	if len(one) != 3 {
		t.Errorf("GetBallRows len = %d, want 3", len(one))
	}
}

func TestGetInningsSummaries(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	rows := []model.BallRow{
		{MatchID: "m1", Innings: 1, Seq: 1, InningsTeam: "Alpha", Over: 0, BallInOver: 1, TotalRuns: 4, IsValid: true},
		{MatchID: "m1", Innings: 1, Seq: 2, InningsTeam: "Alpha", Over: 0, BallInOver: 2, TotalRuns: 1, ExtrasRuns: 1},
		{MatchID: "m1", Innings: 1, Seq: 3, InningsTeam: "Alpha", Over: 1, BallInOver: 1, IsValid: true, WicketFell: true},
	}
	if err := db.InsertBallRows(rows); err != nil {
		t.Fatalf("InsertBallRows: %v", err)
	}

	summaries, err := db.GetInningsSummaries("m1")
	if err != nil {
		t.Fatalf("GetInningsSummaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len = %d, want 1", len(summaries))
	}
	s := summaries[0]
	if s.TotalRuns != 5 || s.WicketsLost != 1 || s.Extras != 1 || s.RunsFromBat != 4 {
		t.Errorf("summary = %+v, want 5 runs, 1 wicket, 1 extra, 4 from bat", s)
	}
	if s.OversBowled != 2 {
		t.Errorf("OversBowled = %d, want 2", s.OversBowled)
	}
}

func TestPlayerAggregateAndTrend(t *testing.T) {
	db := openMemDB(t)

	for _, id := range []string{"m1", "m2"} {
		info := testInfo()
		if id == "m2" {
			info.Date = "2024-06-08"
		}
		if err := db.InsertMatch(info, id); err != nil {
			t.Fatalf("InsertMatch %s: %v", id, err)
		}
	}
	rows := []model.FlatRow{
		{MatchID: "m1", Innings: 1, Player: "A", BatRuns: 30, BatBallsFaced: 20, Bat4s: 4, BatDismissal: "bowled"},
		{MatchID: "m2", Innings: 2, Player: "A", BatRuns: 45, BatBallsFaced: 30, Bat6s: 3,
			BowlRunsConceded: 12, BowlBallsBowled: 12, BowlWickets: 1},
	}
	if err := db.InsertFlatRows(rows); err != nil {
		t.Fatalf("InsertFlatRows: %v", err)
	}

	agg, err := db.GetPlayerAggregate("A")
	if err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if agg == nil {
		t.Fatal("expected aggregate for A")
	}
	if agg.Matches != 2 || agg.Runs != 75 || agg.BallsFaced != 50 {
		t.Errorf("agg = %+v, want 2 matches, 75 runs, 50 balls", agg)
	}
	if agg.Dismissals != 1 || agg.Wickets != 1 {
		t.Errorf("dismissals/wickets = %d/%d, want 1/1", agg.Dismissals, agg.Wickets)
	}
	if agg.InningsBatted != 2 || agg.InningsBowled != 1 {
		t.Errorf("innings batted/bowled = %d/%d, want 2/1", agg.InningsBatted, agg.InningsBowled)
	}

	missing, err := db.GetPlayerAggregate("nobody")
	if err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if missing != nil {
		t.Error("expected nil aggregate for unknown player")
	}

	trend, err := db.GetPlayerTrend("A")
	if err != nil {
		t.Fatalf("GetPlayerTrend: %v", err)
	}
	if len(trend) != 2 {
		t.Fatalf("trend len = %d, want 2", len(trend))
	}
	if trend[0].MatchID != "m1" || trend[1].MatchID != "m2" {
		t.Errorf("trend order = %s, %s, want m1, m2", trend[0].MatchID, trend[1].MatchID)
	}
}

func TestLeaderboards(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	rows := []model.FlatRow{
		{MatchID: "m1", Innings: 1, Player: "A", BatRuns: 80, BatBallsFaced: 40},
		{MatchID: "m1", Innings: 1, Player: "B", BatRuns: 20, BatBallsFaced: 25},
		{MatchID: "m1", Innings: 1, Player: "X", BowlRunsConceded: 30, BowlBallsBowled: 24, BowlWickets: 3},
	}
	if err := db.InsertFlatRows(rows); err != nil {
		t.Fatalf("InsertFlatRows: %v", err)
	}

	batters, err := db.TopRunScorers(10)
	if err != nil {
		t.Fatalf("TopRunScorers: %v", err)
	}
	if len(batters) != 2 || batters[0].Player != "A" || batters[0].Value != 80 {
		t.Errorf("batters = %+v, want A first with 80", batters)
	}

	bowlers, err := db.TopWicketTakers(10)
	if err != nil {
		t.Fatalf("TopWicketTakers: %v", err)
	}
	if len(bowlers) != 1 || bowlers[0].Player != "X" || bowlers[0].Value != 3 {
		t.Errorf("bowlers = %+v, want X with 3", bowlers)
	}
}

func TestDropMatch(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	if err := db.InsertFlatRows([]model.FlatRow{{MatchID: "m1", Innings: 1, Player: "A"}}); err != nil {
		t.Fatalf("InsertFlatRows: %v", err)
	}
	if err := db.InsertBallRows([]model.BallRow{{MatchID: "m1", Innings: 1, Seq: 1, BallInOver: 1}}); err != nil {
		t.Fatalf("InsertBallRows: %v", err)
	}

	if err := db.DropMatch("m1"); err != nil {
		t.Fatalf("DropMatch: %v", err)
	}

	exists, _ := db.MatchExists("m1")
	if exists {
		t.Error("match should be gone after drop")
	}
	counts, err := db.TableCounts()
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s count = %d, want 0", table, n)
		}
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertMatch(testInfo(), "m1"); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT match_id, venue FROM matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "match_id" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "m1" || rows[0][1] != "Test Ground" {
		t.Errorf("rows = %v", rows)
	}

	if _, _, err := db.QueryRaw("DELETE FROM matches"); err == nil {
		t.Error("expected write queries to be rejected")
	}
}
