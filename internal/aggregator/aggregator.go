// Package aggregator turns nested match records into per-player innings
// stats, flat per-player rows, and ordered per-delivery rows.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

// Outcome is the classification of a single delivery.
type Outcome struct {
	// IsValidBall is false iff the delivery carries a wide or no-ball
	// extra. Presence of the key is what counts, even with a zero value.
	IsValidBall bool
	Extras      map[string]int
	BatterRuns  int
	TotalRuns   int
	// BowlerRuns is the concession charged to the bowler: total minus
	// byes and leg-byes. Wide and no-ball penalties stay with the bowler.
	BowlerRuns int
	// ExtrasTotal is the full extras count on the delivery.
	ExtrasTotal int
}

// Classify determines ball validity and the runs breakdown for one
// delivery. Pure function; a missing runs object reads as all-zero.
func Classify(d *model.Delivery) Outcome {
	_, wide := d.Extras["wides"]
	_, noball := d.Extras["noballs"]

	return Outcome{
		IsValidBall: !wide && !noball,
		Extras:      d.Extras,
		BatterRuns:  d.Runs.Batter,
		TotalRuns:   d.Runs.Total,
		BowlerRuns:  d.Runs.Total - d.Extras["byes"] - d.Extras["legbyes"],
		ExtrasTotal: d.Runs.Extras,
	}
}

// bowlerCredited reports whether a dismissal kind counts toward the
// bowler's wickets. Run-outs, retirements, and obstruction never do.
func bowlerCredited(kind string) bool {
	switch kind {
	case "bowled", "caught", "caught and bowled", "lbw", "stumped", "hit wicket":
		return true
	default:
		return false
	}
}

// AccumulateInnings builds per-player batting and bowling aggregates for
// one innings in a single pass over its deliveries. The result holds one
// entry per player who batted or bowled at least once; a player who only
// bowled appears with batting fields at their zero values.
func AccumulateInnings(matchID string, number int, inn *model.Innings) map[string]*model.PlayerInningsStat {
	stats := make(map[string]*model.PlayerInningsStat)
	get := func(player string) *model.PlayerInningsStat {
		s, ok := stats[player]
		if !ok {
			s = &model.PlayerInningsStat{MatchID: matchID, Innings: number, Player: player}
			stats[player] = s
		}
		return s
	}

	for _, over := range inn.Overs {
		for i := range over.Deliveries {
			d := &over.Deliveries[i]
			out := Classify(d)

			if d.Batter != "" {
				bs := get(d.Batter)
				bs.Runs += out.BatterRuns
				if out.IsValidBall {
					bs.BallsFaced++
				}
				switch out.BatterRuns {
				case 4:
					bs.Fours++
				case 6:
					bs.Sixes++
				}
				for _, w := range d.Wickets {
					if w.PlayerOut != d.Batter {
						continue
					}
					bs.DismissalKind = w.Kind
					// Primary fielder gets the credit; fall back to the
					// bowler for bowled/lbw/stumped-style records that
					// list no fielder.
					if len(w.Fielders) > 0 {
						bs.OutBy = w.Fielders[0].Name
					} else {
						bs.OutBy = d.Bowler
					}
				}
			}

			if d.Bowler != "" {
				ps := get(d.Bowler)
				ps.RunsConceded += out.BowlerRuns
				if out.IsValidBall {
					ps.BallsBowled++
				}
				ps.ExtrasConceded += out.ExtrasTotal
				for _, w := range d.Wickets {
					if bowlerCredited(w.Kind) {
						ps.Wickets++
					}
				}
			}
		}
	}
	return stats
}

// AssembleMatch runs the per-innings accumulator over a whole match and
// merges the results with match metadata. It returns one FlatRow per
// player per innings, one BallRow per delivery in innings order, and a
// per-innings scoreline summary.
func AssembleMatch(m *model.Match) ([]model.FlatRow, []model.BallRow, []model.InningsSummary, error) {
	if m == nil {
		return nil, nil, nil, fmt.Errorf("nil match")
	}

	var (
		flat      []model.FlatRow
		balls     []model.BallRow
		summaries []model.InningsSummary
	)

	team1, team2 := "", ""
	if len(m.Info.Teams) > 0 {
		team1 = m.Info.Teams[0]
	}
	if len(m.Info.Teams) > 1 {
		team2 = m.Info.Teams[1]
	}

	for idx := range m.Innings {
		inn := &m.Innings[idx]
		number := idx + 1

		stats := AccumulateInnings(m.ID, number, inn)

		// Stable row order within the innings.
		players := make([]string, 0, len(stats))
		for p := range stats {
			players = append(players, p)
		}
		sort.Strings(players)

		for _, p := range players {
			s := stats[p]
			row := model.FlatRow{
				MatchID:       m.ID,
				Date:          m.Info.Date,
				EventName:     m.Info.EventName,
				MatchNumber:   m.Info.MatchNumber,
				Team1:         team1,
				Team2:         team2,
				Venue:         m.Info.Venue,
				City:          m.Info.City,
				TossWinner:    m.Info.TossWinner,
				TossDecision:  m.Info.TossDecision,
				ResultWinner:  m.Info.ResultWinner,
				ResultBy:      m.Info.ResultBy,
				PlayerOfMatch: m.Info.PlayerOfMatch,

				Innings:     number,
				InningsTeam: inn.Team,
				Player:      s.Player,

				BatRuns:       s.Runs,
				BatBallsFaced: s.BallsFaced,
				Bat4s:         s.Fours,
				Bat6s:         s.Sixes,
				BatDismissal:  s.DismissalKind,
				BatOutBy:      s.OutBy,

				BowlRunsConceded: s.RunsConceded,
				BowlBallsBowled:  s.BallsBowled,
				BowlWickets:      s.Wickets,
				BowlExtras:       s.ExtrasConceded,
			}
			if row.BatBallsFaced > 0 {
				row.StrikeRate = float64(row.BatRuns) / float64(row.BatBallsFaced) * 100
			}
			if row.BowlBallsBowled > 0 {
				row.Economy = float64(row.BowlRunsConceded) / float64(row.BowlBallsBowled) * 6
			}
			flat = append(flat, row)
		}

		balls = append(balls, inningsBalls(m.ID, number, inn)...)
		summaries = append(summaries, summarizeInnings(m.ID, number, inn))
	}

	return flat, balls, summaries, nil
}

// inningsBalls flattens one innings into ordered BallRows.
func inningsBalls(matchID string, number int, inn *model.Innings) []model.BallRow {
	var rows []model.BallRow
	seq := 0
	for _, over := range inn.Overs {
		for i := range over.Deliveries {
			d := &over.Deliveries[i]
			out := Classify(d)
			seq++

			row := model.BallRow{
				MatchID:     matchID,
				Innings:     number,
				InningsTeam: inn.Team,
				Over:        over.Number,
				BallInOver:  i + 1,
				Seq:         seq,
				Batter:      d.Batter,
				Bowler:      d.Bowler,
				NonStriker:  d.NonStriker,
				BatterRuns:  out.BatterRuns,
				TotalRuns:   out.TotalRuns,
				ExtrasRuns:  out.ExtrasTotal,
				IsValid:     out.IsValidBall,
			}
			for _, w := range d.Wickets {
				row.WicketFell = true
				row.WicketKind = w.Kind
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// summarizeInnings computes the innings scoreline. Runs from the bat are
// total runs minus extras.
func summarizeInnings(matchID string, number int, inn *model.Innings) model.InningsSummary {
	s := model.InningsSummary{
		MatchID:     matchID,
		Innings:     number,
		Team:        inn.Team,
		OversBowled: len(inn.Overs),
	}
	for _, over := range inn.Overs {
		for i := range over.Deliveries {
			d := &over.Deliveries[i]
			s.TotalRuns += d.Runs.Total
			s.Extras += d.Runs.Extras
			s.WicketsLost += len(d.Wickets)
		}
	}
	s.RunsFromBat = s.TotalRuns - s.Extras
	return s
}
