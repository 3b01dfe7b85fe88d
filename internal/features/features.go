// Package features derives rolling, match-context, and next-ball target
// columns from ordered per-delivery rows. All three stages are strict
// single passes per group; the rolling and grouping axes share one
// windowed-and-cumulative fold.
package features

import (
	"sort"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

const (
	// DefaultWindow is the rolling look-back in deliveries.
	DefaultWindow = 12
	// DefaultOversPerInnings fixes the 20-over match assumption used for
	// phase buckets and the required run rate.
	DefaultOversPerInnings = 20
)

// Engine computes feature rows from ball rows.
type Engine struct {
	// Window is the rolling window size W.
	Window int
	// OversPerInnings scales the phase buckets and the remaining-balls
	// term of the required run rate.
	OversPerInnings int
	// ChaseOnly restricts the required run rate to second innings.
	// Default false: the rate is computed for every innings under the
	// same formula.
	ChaseOnly bool
}

// New returns an Engine with defaults filled in for zero fields.
func New(window, oversPerInnings int, chaseOnly bool) *Engine {
	if window <= 0 {
		window = DefaultWindow
	}
	if oversPerInnings <= 0 {
		oversPerInnings = DefaultOversPerInnings
	}
	return &Engine{Window: window, OversPerInnings: oversPerInnings, ChaseOnly: chaseOnly}
}

// Build runs the full derivation: rolling stats, innings context, then
// next-ball targets. The returned rows are ordered by match, innings,
// and delivery sequence, with the last ball of every innings dropped.
func (e *Engine) Build(balls []model.BallRow) []model.FeatureRow {
	rows := e.Rolling(balls)
	e.Context(rows)
	return Targets(rows)
}

// phaseFor buckets a 1-based over number into powerplay/middle/death.
// For 20 overs the cutoffs are 6 and 15.
func (e *Engine) phaseFor(overNumber int) (string, float64) {
	pp := e.OversPerInnings * 3 / 10
	mid := e.OversPerInnings * 3 / 4
	switch {
	case overNumber <= pp:
		return "powerplay", 1.0
	case overNumber <= mid:
		return "middle", 1.5
	default:
		return "death", 2.0
	}
}

// rollspec names one output of a rolling pass: a windowed aggregate of
// col written through set. mean=false writes the windowed sum.
type rollspec struct {
	col  func(*model.FeatureRow) float64
	mean bool
	set  func(*model.FeatureRow, float64)
}

// rollGroups is the windowed-and-cumulative fold shared by the batter
// and bowler passes. rows must be ordered so each group's records are
// contiguous and in delivery order. State resets at every key change:
// partial windows at the start of a group use whatever is available,
// while the cumulative count is 1-based and uncapped by the window.
func rollGroups(rows []model.FeatureRow, key func(*model.FeatureRow) string, window int, setCount func(*model.FeatureRow, int), specs ...rollspec) {
	var (
		rings [][]float64
		sums  []float64
		count int
		prev  string
		open  bool
	)
	for i := range rows {
		r := &rows[i]
		k := key(r)
		if !open || k != prev {
			rings = make([][]float64, len(specs))
			sums = make([]float64, len(specs))
			count = 0
			prev = k
			open = true
		}
		count++
		for j, sp := range specs {
			v := sp.col(r)
			rings[j] = append(rings[j], v)
			sums[j] += v
			if len(rings[j]) > window {
				sums[j] -= rings[j][0]
				rings[j] = rings[j][1:]
			}
			out := sums[j]
			if sp.mean {
				out /= float64(len(rings[j]))
			}
			sp.set(r, out)
		}
		setCount(r, count)
	}
}

// Rolling converts ball rows into feature rows and fills the batter and
// bowler rolling columns. The windowed numerator over a cumulative
// denominator is intentional: rolling_balls is the total faced (or
// bowled) so far within the group, not the windowed count.
func (e *Engine) Rolling(balls []model.BallRow) []model.FeatureRow {
	rows := make([]model.FeatureRow, len(balls))
	for i, b := range balls {
		rows[i] = model.FeatureRow{BallRow: b}
		rows[i].Phase, rows[i].PhaseWeight = e.phaseFor(b.OverNumber())
	}

	// Batter pass.
	sortRows(rows, func(r *model.FeatureRow) string { return r.Batter })
	rollGroups(rows,
		func(r *model.FeatureRow) string { return r.Batter },
		e.Window,
		func(r *model.FeatureRow, n int) { r.BatRollingBalls = n },
		rollspec{
			col: func(r *model.FeatureRow) float64 { return float64(r.BatterRuns) },
			set: func(r *model.FeatureRow, v float64) { r.BatRollingRuns = int(v) },
		},
		rollspec{
			col:  func(r *model.FeatureRow) float64 { return indicator(r.IsBoundary()) },
			mean: true,
			set:  func(r *model.FeatureRow, v float64) { r.BatBoundaryPct = v },
		},
		rollspec{
			col:  func(r *model.FeatureRow) float64 { return indicator(r.IsDot()) },
			mean: true,
			set:  func(r *model.FeatureRow, v float64) { r.BatDotPct = v },
		},
	)
	for i := range rows {
		rows[i].BatStrikeRate = float64(rows[i].BatRollingRuns) / float64(rows[i].BatRollingBalls) * 100
	}

	// Bowler pass: identical fold, bowler grouping.
	sortRows(rows, func(r *model.FeatureRow) string { return r.Bowler })
	rollGroups(rows,
		func(r *model.FeatureRow) string { return r.Bowler },
		e.Window,
		func(r *model.FeatureRow, n int) { r.BowlRollingBalls = n },
		rollspec{
			col: func(r *model.FeatureRow) float64 { return float64(r.BatterRuns) },
			set: func(r *model.FeatureRow, v float64) { r.BowlRollingRuns = int(v) },
		},
		rollspec{
			col:  func(r *model.FeatureRow) float64 { return indicator(r.WicketFell) },
			mean: true,
			set:  func(r *model.FeatureRow, v float64) { r.BowlWicketPct = v },
		},
	)
	for i := range rows {
		rows[i].BowlEconomy = float64(rows[i].BowlRollingRuns) / float64(rows[i].BowlRollingBalls) * 6
	}

	return rows
}

// Context fills cumulative score, wickets in hand, required run rate,
// and pressure index per (match, innings) group. Rows end up sorted by
// match, innings, and delivery sequence.
func (e *Engine) Context(rows []model.FeatureRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Innings != b.Innings {
			return a.Innings < b.Innings
		}
		return a.Seq < b.Seq
	})

	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].MatchID == rows[start].MatchID && rows[end].Innings == rows[start].Innings {
			end++
		}
		e.contextGroup(rows[start:end])
		start = end
	}
}

// contextGroup processes one (match, innings) group in delivery order.
func (e *Engine) contextGroup(group []model.FeatureRow) {
	runs, wkts := 0, 0
	for i := range group {
		runs += group[i].BatterRuns
		if group[i].WicketFell {
			wkts++
		}
		group[i].InningsRunsCum = runs
		group[i].InningsWktsCum = wkts
		group[i].WicketsInHand = 10 - wkts
	}

	// Target is the group's final score plus one.
	target := runs + 1
	totalBalls := e.OversPerInnings * 6

	for i := range group {
		r := &group[i]
		r.RequiredRunRate = nil
		if !e.ChaseOnly || r.Innings == 2 {
			remaining := totalBalls - (r.Over*6 + r.BallInOver)
			if remaining > 0 {
				v := float64(target-r.InningsRunsCum) * 6 / float64(remaining)
				r.RequiredRunRate = &v
			}
		}
		// Undefined rate reads as zero here so the pressure index never
		// carries a false signal.
		rrr := 0.0
		if r.RequiredRunRate != nil {
			rrr = *r.RequiredRunRate
		}
		r.PressureIndex = rrr * r.PhaseWeight / float64(r.WicketsInHand+1)
	}
}

// Targets attaches next-ball supervision targets within each (match,
// innings) group and drops the last ball of every group, which has no
// next delivery to learn from.
func Targets(rows []model.FeatureRow) []model.FeatureRow {
	out := make([]model.FeatureRow, 0, len(rows))
	for i := range rows {
		if i+1 >= len(rows) {
			break
		}
		next := &rows[i+1]
		if rows[i].MatchID != next.MatchID || rows[i].Innings != next.Innings {
			continue
		}
		r := rows[i]
		r.NextBallRuns = next.BatterRuns
		r.NextBallWicket = next.WicketFell
		out = append(out, r)
	}
	return out
}

// sortRows orders rows by (key, match, innings, seq) so each group is
// contiguous and internally in delivery order.
func sortRows(rows []model.FeatureRow, key func(*model.FeatureRow) string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		ka, kb := key(a), key(b)
		if ka != kb {
			return ka < kb
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Innings != b.Innings {
			return a.Innings < b.Innings
		}
		return a.Seq < b.Seq
	})
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
