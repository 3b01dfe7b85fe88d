package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/amribanerjee/cricmetrics/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match metadata record. Uses INSERT OR REPLACE for
// idempotency: re-ingesting a match overwrites rather than duplicates.
func (db *DB) InsertMatch(info model.MatchInfo, id string) error {
	team1, team2 := "", ""
	if len(info.Teams) > 0 {
		team1 = info.Teams[0]
	}
	if len(info.Teams) > 1 {
		team2 = info.Teams[1]
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(
			match_id, match_date, event_name, match_number,
			team1, team2, venue, city,
			toss_winner, toss_decision, result_winner, result_by, player_of_match
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, info.Date, info.EventName, info.MatchNumber,
		team1, team2, info.Venue, info.City,
		info.TossWinner, info.TossDecision, info.ResultWinner, info.ResultBy, info.PlayerOfMatch,
	)
	return err
}

// InsertFlatRows bulk-inserts per-player innings rows in a transaction.
func (db *DB) InsertFlatRows(rows []model.FlatRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_innings_stats(
			match_id, innings, innings_team, player,
			bat_runs, bat_balls_faced, bat_4s, bat_6s, bat_dismissal, bat_out_by,
			bowl_runs_conceded, bowl_balls_bowled, bowl_wickets, bowl_extras,
			strike_rate, economy
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.MatchID, r.Innings, r.InningsTeam, r.Player,
			r.BatRuns, r.BatBallsFaced, r.Bat4s, r.Bat6s, r.BatDismissal, r.BatOutBy,
			r.BowlRunsConceded, r.BowlBallsBowled, r.BowlWickets, r.BowlExtras,
			r.StrikeRate, r.Economy,
		)
		if err != nil {
			return fmt.Errorf("insert player_innings_stats for %s: %w", r.Player, err)
		}
	}
	return tx.Commit()
}

// InsertBallRows bulk-inserts per-delivery rows in a transaction.
func (db *DB) InsertBallRows(rows []model.BallRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO deliveries(
			match_id, innings, seq, innings_team, over_idx, ball_in_over,
			batter, bowler, non_striker,
			batter_runs, total_runs, extras_runs,
			is_valid, wicket_fell, wicket_kind
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.MatchID, r.Innings, r.Seq, r.InningsTeam, r.Over, r.BallInOver,
			r.Batter, r.Bowler, r.NonStriker,
			r.BatterRuns, r.TotalRuns, r.ExtrasRuns,
			boolInt(r.IsValid), boolInt(r.WicketFell), r.WicketKind,
		)
		if err != nil {
			return fmt.Errorf("insert deliveries for %s/%d/%d: %w", r.MatchID, r.Innings, r.Seq, err)
		}
	}
	return tx.Commit()
}

const matchColumns = `
	match_id, match_date, event_name, match_number,
	team1, team2, venue, city,
	toss_winner, toss_decision, result_winner, result_by, player_of_match`

func scanMatch(scan func(...any) error) (model.MatchSummary, error) {
	var s model.MatchSummary
	var team1, team2 string
	err := scan(&s.MatchID, &s.Date, &s.EventName, &s.MatchNumber,
		&team1, &team2, &s.Venue, &s.City,
		&s.TossWinner, &s.TossDecision, &s.ResultWinner, &s.ResultBy, &s.PlayerOfMatch)
	if err != nil {
		return s, err
	}
	s.Teams = []string{team1, team2}
	return s, nil
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT` + matchColumns + ` FROM matches ORDER BY match_date DESC, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT`+matchColumns+` FROM matches WHERE match_id LIKE ? ORDER BY match_id LIMIT 1`, prefix+"%")
	s, err := scanMatch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetFlatRows returns all player innings rows for a match, ordered by
// innings then runs scored descending.
func (db *DB) GetFlatRows(matchID string) ([]model.FlatRow, error) {
	rows, err := db.conn.Query(`
		SELECT p.innings, p.innings_team, p.player,
		       p.bat_runs, p.bat_balls_faced, p.bat_4s, p.bat_6s, p.bat_dismissal, p.bat_out_by,
		       p.bowl_runs_conceded, p.bowl_balls_bowled, p.bowl_wickets, p.bowl_extras,
		       p.strike_rate, p.economy,
		       m.match_date, m.event_name, m.match_number, m.team1, m.team2,
		       m.venue, m.city, m.toss_winner, m.toss_decision,
		       m.result_winner, m.result_by, m.player_of_match
		FROM player_innings_stats p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.match_id = ?
		ORDER BY p.innings, p.bat_runs DESC, p.player`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FlatRow
	for rows.Next() {
		var r model.FlatRow
		if err := rows.Scan(
			&r.Innings, &r.InningsTeam, &r.Player,
			&r.BatRuns, &r.BatBallsFaced, &r.Bat4s, &r.Bat6s, &r.BatDismissal, &r.BatOutBy,
			&r.BowlRunsConceded, &r.BowlBallsBowled, &r.BowlWickets, &r.BowlExtras,
			&r.StrikeRate, &r.Economy,
			&r.Date, &r.EventName, &r.MatchNumber, &r.Team1, &r.Team2,
			&r.Venue, &r.City, &r.TossWinner, &r.TossDecision,
			&r.ResultWinner, &r.ResultBy, &r.PlayerOfMatch,
		); err != nil {
			return nil, err
		}
		r.MatchID = matchID
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetAllFlatRows returns every stored player innings row joined with match
// metadata, ordered by date then match then innings.
func (db *DB) GetAllFlatRows() ([]model.FlatRow, error) {
	rows, err := db.conn.Query(`
		SELECT p.match_id, p.innings, p.innings_team, p.player,
		       p.bat_runs, p.bat_balls_faced, p.bat_4s, p.bat_6s, p.bat_dismissal, p.bat_out_by,
		       p.bowl_runs_conceded, p.bowl_balls_bowled, p.bowl_wickets, p.bowl_extras,
		       p.strike_rate, p.economy,
		       m.match_date, m.event_name, m.match_number, m.team1, m.team2,
		       m.venue, m.city, m.toss_winner, m.toss_decision,
		       m.result_winner, m.result_by, m.player_of_match
		FROM player_innings_stats p
		JOIN matches m ON m.match_id = p.match_id
		ORDER BY m.match_date, p.match_id, p.innings, p.player`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FlatRow
	for rows.Next() {
		var r model.FlatRow
		if err := rows.Scan(
			&r.MatchID, &r.Innings, &r.InningsTeam, &r.Player,
			&r.BatRuns, &r.BatBallsFaced, &r.Bat4s, &r.Bat6s, &r.BatDismissal, &r.BatOutBy,
			&r.BowlRunsConceded, &r.BowlBallsBowled, &r.BowlWickets, &r.BowlExtras,
			&r.StrikeRate, &r.Economy,
			&r.Date, &r.EventName, &r.MatchNumber, &r.Team1, &r.Team2,
			&r.Venue, &r.City, &r.TossWinner, &r.TossDecision,
			&r.ResultWinner, &r.ResultBy, &r.PlayerOfMatch,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const ballColumns = `
	match_id, innings, seq, innings_team, over_idx, ball_in_over,
	batter, bowler, non_striker,
	batter_runs, total_runs, extras_runs,
	is_valid, wicket_fell, wicket_kind`

func scanBall(scan func(...any) error) (model.BallRow, error) {
	var r model.BallRow
	var isValid, wicketFell int
	err := scan(&r.MatchID, &r.Innings, &r.Seq, &r.InningsTeam, &r.Over, &r.BallInOver,
		&r.Batter, &r.Bowler, &r.NonStriker,
		&r.BatterRuns, &r.TotalRuns, &r.ExtrasRuns,
		&isValid, &wicketFell, &r.WicketKind)
	if err != nil {
		return r, err
	}
	r.IsValid = isValid != 0
	r.WicketFell = wicketFell != 0
	return r, nil
}

// GetBallRows returns all deliveries for a match in innings order.
func (db *DB) GetBallRows(matchID string) ([]model.BallRow, error) {
	rows, err := db.conn.Query(`SELECT`+ballColumns+` FROM deliveries WHERE match_id = ? ORDER BY innings, seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BallRow
	for rows.Next() {
		r, err := scanBall(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetAllBallRows returns every stored delivery ordered by match, innings,
// and sequence. This is the input to the feature engines.
func (db *DB) GetAllBallRows() ([]model.BallRow, error) {
	rows, err := db.conn.Query(`SELECT` + ballColumns + ` FROM deliveries ORDER BY match_id, innings, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BallRow
	for rows.Next() {
		r, err := scanBall(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetInningsSummaries computes per-innings scorelines for a match from the
// stored deliveries.
func (db *DB) GetInningsSummaries(matchID string) ([]model.InningsSummary, error) {
	rows, err := db.conn.Query(`
		SELECT innings, MAX(innings_team),
		       COALESCE(SUM(total_runs), 0),
		       COALESCE(SUM(wicket_fell), 0),
		       COALESCE(SUM(extras_runs), 0),
		       COUNT(DISTINCT over_idx)
		FROM deliveries
		WHERE match_id = ?
		GROUP BY innings
		ORDER BY innings`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InningsSummary
	for rows.Next() {
		s := model.InningsSummary{MatchID: matchID}
		if err := rows.Scan(&s.Innings, &s.Team, &s.TotalRuns, &s.WicketsLost, &s.Extras, &s.OversBowled); err != nil {
			return nil, err
		}
		s.RunsFromBat = s.TotalRuns - s.Extras
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPlayerAggregate returns one player's figures summed across all stored
// matches. Returns nil when the player has no stored innings.
func (db *DB) GetPlayerAggregate(player string) (*model.PlayerAggregate, error) {
	a := model.PlayerAggregate{Player: player}
	err := db.conn.QueryRow(`
		SELECT COUNT(DISTINCT match_id),
		       COALESCE(SUM(CASE WHEN bat_balls_faced > 0 OR bat_runs > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN bowl_balls_bowled > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(bat_runs), 0), COALESCE(SUM(bat_balls_faced), 0),
		       COALESCE(SUM(bat_4s), 0), COALESCE(SUM(bat_6s), 0),
		       COALESCE(SUM(CASE WHEN bat_dismissal != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(bowl_runs_conceded), 0), COALESCE(SUM(bowl_balls_bowled), 0),
		       COALESCE(SUM(bowl_wickets), 0)
		FROM player_innings_stats
		WHERE player = ?`, player).Scan(
		&a.Matches,
		&a.InningsBatted, &a.InningsBowled,
		&a.Runs, &a.BallsFaced,
		&a.Fours, &a.Sixes,
		&a.Dismissals,
		&a.RunsConceded, &a.BallsBowled,
		&a.Wickets,
	)
	if err != nil {
		return nil, err
	}
	if a.Matches == 0 {
		return nil, nil
	}
	return &a, nil
}

// PlayerTrendRow is one match's figures for a player, used by the trend view.
type PlayerTrendRow struct {
	MatchID    string
	Date       string
	EventName  string
	Innings    int
	Runs       int
	BallsFaced int
	StrikeRate float64
	Wickets    int
	Economy    float64
}

// GetPlayerTrend returns per-innings figures for a player across all stored
// matches, ordered by date ascending.
func (db *DB) GetPlayerTrend(player string) ([]PlayerTrendRow, error) {
	rows, err := db.conn.Query(`
		SELECT p.match_id, m.match_date, m.event_name, p.innings,
		       p.bat_runs, p.bat_balls_faced, p.strike_rate,
		       p.bowl_wickets, p.economy
		FROM player_innings_stats p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.player = ?
		ORDER BY m.match_date, p.match_id, p.innings`, player)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTrendRow
	for rows.Next() {
		var r PlayerTrendRow
		if err := rows.Scan(&r.MatchID, &r.Date, &r.EventName, &r.Innings,
			&r.Runs, &r.BallsFaced, &r.StrikeRate,
			&r.Wickets, &r.Economy); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LeaderRow is one line of the summary leaderboards.
type LeaderRow struct {
	Player  string
	Innings int
	Value   int
	Balls   int
}

// TopRunScorers returns the highest run aggregates across all stored matches.
func (db *DB) TopRunScorers(limit int) ([]LeaderRow, error) {
	return db.leaders(`
		SELECT player, COUNT(1), COALESCE(SUM(bat_runs), 0), COALESCE(SUM(bat_balls_faced), 0)
		FROM player_innings_stats
		GROUP BY player
		HAVING SUM(bat_balls_faced) > 0
		ORDER BY SUM(bat_runs) DESC
		LIMIT ?`, limit)
}

// TopWicketTakers returns the highest wicket aggregates across all stored matches.
func (db *DB) TopWicketTakers(limit int) ([]LeaderRow, error) {
	return db.leaders(`
		SELECT player, COUNT(1), COALESCE(SUM(bowl_wickets), 0), COALESCE(SUM(bowl_balls_bowled), 0)
		FROM player_innings_stats
		GROUP BY player
		HAVING SUM(bowl_balls_bowled) > 0
		ORDER BY SUM(bowl_wickets) DESC, SUM(bowl_balls_bowled)
		LIMIT ?`, limit)
}

func (db *DB) leaders(query string, limit int) ([]LeaderRow, error) {
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderRow
	for rows.Next() {
		var r LeaderRow
		if err := rows.Scan(&r.Player, &r.Innings, &r.Value, &r.Balls); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DropMatch deletes a match and all of its derived rows.
func (db *DB) DropMatch(matchID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM deliveries WHERE match_id = ?",
		"DELETE FROM player_innings_stats WHERE match_id = ?",
		"DELETE FROM matches WHERE match_id = ?",
	} {
		if _, err := tx.Exec(q, matchID); err != nil {
			return fmt.Errorf("drop %s: %w", matchID, err)
		}
	}
	return tx.Commit()
}

// TableCounts returns row counts per table, for the sql command's overview.
func (db *DB) TableCounts() (map[string]int, error) {
	out := make(map[string]int)
	for _, table := range []string{"matches", "player_innings_stats", "deliveries"} {
		var n int
		if err := db.conn.QueryRow("SELECT COUNT(1) FROM " + table).Scan(&n); err != nil {
			return nil, err
		}
		out[table] = n
	}
	return out, nil
}

// QueryRaw runs an arbitrary read query and returns column names plus rows
// rendered as strings. NULL renders as an empty string.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	if !isReadQuery(query) {
		return nil, nil, fmt.Errorf("only SELECT queries are allowed")
	}
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = v.String
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func isReadQuery(q string) bool {
	trimmed := strings.TrimSpace(strings.ToUpper(q))
	return strings.HasPrefix(trimmed, "SELECT") || strings.HasPrefix(trimmed, "WITH")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
