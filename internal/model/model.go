package model

// ---- Raw match records decoded by the source ----

// Runs is the runs object attached to a single delivery.
type Runs struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

// Fielder is one fielder credited on a wicket event.
type Fielder struct {
	Name       string `json:"name"`
	Substitute bool   `json:"substitute,omitempty"`
}

// WicketEvent is one dismissal on a delivery. The first fielder, if any,
// carries primary credit (catches, run-outs).
type WicketEvent struct {
	Kind      string    `json:"kind"`
	PlayerOut string    `json:"player_out"`
	Fielders  []Fielder `json:"fielders,omitempty"`
}

// Delivery is one ball bowled and its full outcome. Immutable once read.
type Delivery struct {
	Batter     string         `json:"batter"`
	Bowler     string         `json:"bowler"`
	NonStriker string         `json:"non_striker"`
	Runs       Runs           `json:"runs"`
	Extras     map[string]int `json:"extras,omitempty"`
	Wickets    []WicketEvent  `json:"wickets,omitempty"`
}

// Over is an ordered sequence of deliveries. The over index is not
// authoritative for ball counting: wides and no-balls stretch an over
// past 6 valid balls.
type Over struct {
	Number     int        `json:"over"`
	Deliveries []Delivery `json:"deliveries"`
}

// Innings is one team's batting innings, ordered within the match.
type Innings struct {
	Team  string `json:"team"`
	Overs []Over `json:"overs"`
}

// MatchInfo is the normalized metadata block of a match file.
type MatchInfo struct {
	Date          string
	EventName     string
	MatchNumber   int
	Teams         []string
	Venue         string
	City          string
	TossWinner    string
	TossDecision  string
	ResultWinner  string
	ResultBy      string
	PlayerOfMatch string
}

// Match is one match file: metadata plus ordered innings.
type Match struct {
	ID      string
	Info    MatchInfo
	Innings []Innings
}

// ---- Aggregated per-player records ----

// PlayerInningsStat accumulates one player's batting and bowling figures
// for a single innings. Fields start at their zero values and are only
// ever touched by deliveries involving the player.
type PlayerInningsStat struct {
	MatchID string
	Innings int
	Player  string

	// Batting
	Runs          int
	BallsFaced    int
	Fours         int
	Sixes         int
	DismissalKind string // empty = not out (or did not bat)
	OutBy         string // primary fielder, else bowler

	// Bowling
	RunsConceded   int
	BallsBowled    int
	Wickets        int
	ExtrasConceded int
}

// FlatRow is one player's batting+bowling record for one innings merged
// with match metadata. One FlatRow per player per innings.
type FlatRow struct {
	MatchID       string
	Date          string
	EventName     string
	MatchNumber   int
	Team1         string
	Team2         string
	Venue         string
	City          string
	TossWinner    string
	TossDecision  string
	ResultWinner  string
	ResultBy      string
	PlayerOfMatch string

	Innings     int
	InningsTeam string
	Player      string

	BatRuns       int
	BatBallsFaced int
	Bat4s         int
	Bat6s         int
	BatDismissal  string
	BatOutBy      string

	BowlRunsConceded int
	BowlBallsBowled  int
	BowlWickets      int
	BowlExtras       int

	// Computed once at assembly; defined zero when the denominator is zero.
	StrikeRate float64
	Economy    float64
}

// BoundaryRate returns boundaries per ball faced, 0 when no balls faced.
func (r *FlatRow) BoundaryRate() float64 {
	if r.BatBallsFaced == 0 {
		return 0
	}
	return float64(r.Bat4s+r.Bat6s) / float64(r.BatBallsFaced)
}

// OversBowled returns balls bowled expressed in 6-ball overs.
func (r *FlatRow) OversBowled() float64 {
	return float64(r.BowlBallsBowled) / 6
}

// BowlingStrikeRate returns balls per wicket, 0 when no wickets taken.
func (r *FlatRow) BowlingStrikeRate() float64 {
	if r.BowlWickets == 0 {
		return 0
	}
	return float64(r.BowlBallsBowled) / float64(r.BowlWickets)
}

// IsOut reports whether the player was dismissed in this innings.
func (r *FlatRow) IsOut() bool {
	return r.BatDismissal != ""
}

// TossWon reports whether the player's batting side won the toss.
func (r *FlatRow) TossWon() bool {
	return r.TossWinner != "" && r.InningsTeam == r.TossWinner
}

// ---- Per-delivery records consumed by the feature engines ----

// BallRow is one delivery in innings sequence: the unit the rolling and
// context engines fold over. Over is the 0-based over index from the
// source file; BallInOver is 1-based within the over.
type BallRow struct {
	MatchID     string
	Innings     int
	InningsTeam string
	Over        int
	BallInOver  int
	Seq         int // 1-based delivery sequence within the innings

	Batter     string
	Bowler     string
	NonStriker string

	BatterRuns int
	TotalRuns  int
	ExtrasRuns int
	IsValid    bool
	WicketFell bool
	WicketKind string
}

// OverNumber returns the 1-based over number used for phase bucketing.
func (b *BallRow) OverNumber() int {
	return b.Over + 1
}

// IsBoundary reports whether the batter hit a 4 or a 6 off this ball.
func (b *BallRow) IsBoundary() bool {
	return b.BatterRuns == 4 || b.BatterRuns == 6
}

// IsDot reports whether the batter scored nothing off this ball.
func (b *BallRow) IsDot() bool {
	return b.BatterRuns == 0
}

// FeatureRow is a BallRow augmented with rolling, context, and target
// columns. RequiredRunRate is nil when no balls remain (undefined, not
// zero); every other ratio carries a defined zero instead.
type FeatureRow struct {
	BallRow

	Phase       string
	PhaseWeight float64

	BatRollingRuns  int
	BatRollingBalls int
	BatStrikeRate   float64
	BatBoundaryPct  float64
	BatDotPct       float64

	BowlRollingRuns  int
	BowlRollingBalls int
	BowlEconomy      float64
	BowlWicketPct    float64

	InningsRunsCum  int
	InningsWktsCum  int
	WicketsInHand   int
	RequiredRunRate *float64
	PressureIndex   float64

	NextBallRuns   int
	NextBallWicket bool
}

// ---- Summaries for list/show commands ----

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID       string
	Date          string
	EventName     string
	MatchNumber   int
	Teams         []string
	Venue         string
	City          string
	TossWinner    string
	TossDecision  string
	ResultWinner  string
	ResultBy      string
	PlayerOfMatch string
}

// InningsSummary is the per-innings scoreline shown by show/ingest.
type InningsSummary struct {
	MatchID     string
	Innings     int
	Team        string
	TotalRuns   int
	WicketsLost int
	RunsFromBat int
	Extras      int
	OversBowled int
}

// PlayerAggregate holds one player's figures aggregated across all
// stored matches.
type PlayerAggregate struct {
	Player        string
	Matches       int
	InningsBatted int
	InningsBowled int

	Runs       int
	BallsFaced int
	Fours      int
	Sixes      int
	Dismissals int

	RunsConceded int
	BallsBowled  int
	Wickets      int
}

// StrikeRate returns career runs per 100 balls faced, 0 with no balls faced.
func (a *PlayerAggregate) StrikeRate() float64 {
	if a.BallsFaced == 0 {
		return 0
	}
	return float64(a.Runs) / float64(a.BallsFaced) * 100
}

// BattingAverage returns runs per dismissal; undismissed careers return
// total runs, matching the scorecard convention.
func (a *PlayerAggregate) BattingAverage() float64 {
	if a.Dismissals == 0 {
		return float64(a.Runs)
	}
	return float64(a.Runs) / float64(a.Dismissals)
}

// Economy returns career runs conceded per over bowled, 0 with no balls bowled.
func (a *PlayerAggregate) Economy() float64 {
	if a.BallsBowled == 0 {
		return 0
	}
	return float64(a.RunsConceded) / float64(a.BallsBowled) * 6
}

// BowlingAverage returns runs conceded per wicket, 0 with no wickets.
func (a *PlayerAggregate) BowlingAverage() float64 {
	if a.Wickets == 0 {
		return 0
	}
	return float64(a.RunsConceded) / float64(a.Wickets)
}
