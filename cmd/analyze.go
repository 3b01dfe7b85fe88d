package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

const analyzeSystemPrompt = `You are a T20 cricket performance analyst. You are given structured data
from a ball-by-ball parsing tool and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable.
- Avoid generic cricket advice unless it directly explains a pattern in the data.

Metrics glossary:
- SR (strike rate): runs per 100 balls faced. T20 benchmark: 130+ is strong.
- Economy: runs conceded per over bowled. T20 benchmark: under 8 is strong.
- Batting average: runs per dismissal.
- Bowling average: runs conceded per wicket.
- 4s/6s: boundary counts off the bat.
- Balls faced excludes wides and no-balls; a batter can score off a no-ball.
- Bowler wickets exclude run outs and retirements.
- Extras conceded: wides, no-balls, byes, leg-byes on the bowler's deliveries.`

var (
	analyzeModel  string
	analyzeAPIKey string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <name> <question>",
	Short: "Analyze a player's career figures with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

var analyzeMatchCmd = &cobra.Command{
	Use:   "match <match-id-prefix> <question>",
	Short: "Analyze a single match with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeMatch,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeCmd.AddCommand(analyzePlayerCmd)
	analyzeCmd.AddCommand(analyzeMatchCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	agg, err := db.GetPlayerAggregate(name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if agg == nil {
		return fmt.Errorf("no stored innings for %q", name)
	}
	trend, err := db.GetPlayerTrend(name)
	if err != nil {
		return fmt.Errorf("query trend: %w", err)
	}

	contextJSON, err := buildPlayerContext(agg, trend)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

func runAnalyzeMatch(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	match, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("find match: %w", err)
	}
	if match == nil {
		return fmt.Errorf("no match found with id prefix %q", args[0])
	}
	question := args[1]

	rows, err := db.GetFlatRows(match.MatchID)
	if err != nil {
		return fmt.Errorf("query match stats: %w", err)
	}
	summaries, err := db.GetInningsSummaries(match.MatchID)
	if err != nil {
		return fmt.Errorf("query innings summaries: %w", err)
	}

	contextJSON, err := buildMatchContext(match, summaries, rows)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, contextJSON, question)
}

// buildPlayerContext serialises a player's career and match-by-match data
// into compact JSON.
func buildPlayerContext(agg *model.PlayerAggregate, trend []storage.PlayerTrendRow) (string, error) {
	type trendEntry struct {
		MatchID string  `json:"match_id"`
		Date    string  `json:"date"`
		Innings int     `json:"innings"`
		Runs    int     `json:"runs"`
		Balls   int     `json:"balls"`
		SR      float64 `json:"sr"`
		Wickets int     `json:"wickets"`
		Economy float64 `json:"economy"`
	}
	matches := make([]trendEntry, 0, len(trend))
	for _, t := range trend {
		matches = append(matches, trendEntry{
			MatchID: t.MatchID,
			Date:    t.Date,
			Innings: t.Innings,
			Runs:    t.Runs,
			Balls:   t.BallsFaced,
			SR:      round2(t.StrikeRate),
			Wickets: t.Wickets,
			Economy: round2(t.Economy),
		})
	}

	doc := map[string]interface{}{
		"subject":          "player",
		"player":           agg.Player,
		"matches_analyzed": agg.Matches,
		"batting": map[string]interface{}{
			"innings":     agg.InningsBatted,
			"runs":        agg.Runs,
			"balls_faced": agg.BallsFaced,
			"fours":       agg.Fours,
			"sixes":       agg.Sixes,
			"dismissals":  agg.Dismissals,
			"strike_rate": round2(agg.StrikeRate()),
			"average":     round2(agg.BattingAverage()),
		},
		"bowling": map[string]interface{}{
			"innings":       agg.InningsBowled,
			"runs_conceded": agg.RunsConceded,
			"balls_bowled":  agg.BallsBowled,
			"wickets":       agg.Wickets,
			"economy":       round2(agg.Economy()),
			"average":       round2(agg.BowlingAverage()),
		},
		"matches": matches,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// buildMatchContext serialises a single match into compact JSON.
func buildMatchContext(match *model.MatchSummary, summaries []model.InningsSummary, rows []model.FlatRow) (string, error) {
	type playerEntry struct {
		Player     string  `json:"player"`
		Innings    int     `json:"innings"`
		Team       string  `json:"team"`
		Runs       int     `json:"runs"`
		Balls      int     `json:"balls"`
		Fours      int     `json:"fours"`
		Sixes      int     `json:"sixes"`
		SR         float64 `json:"sr"`
		Dismissal  string  `json:"dismissal,omitempty"`
		Wickets    int     `json:"wickets"`
		BallsBowl  int     `json:"balls_bowled"`
		Conceded   int     `json:"runs_conceded"`
		Economy    float64 `json:"economy"`
	}
	type inningsEntry struct {
		Innings int    `json:"innings"`
		Team    string `json:"team"`
		Score   string `json:"score"`
		Extras  int    `json:"extras"`
		Overs   int    `json:"overs"`
	}

	innings := make([]inningsEntry, 0, len(summaries))
	for _, s := range summaries {
		innings = append(innings, inningsEntry{
			Innings: s.Innings,
			Team:    s.Team,
			Score:   fmt.Sprintf("%d/%d", s.TotalRuns, s.WicketsLost),
			Extras:  s.Extras,
			Overs:   s.OversBowled,
		})
	}

	players := make([]playerEntry, 0, len(rows))
	for _, r := range rows {
		players = append(players, playerEntry{
			Player:    r.Player,
			Innings:   r.Innings,
			Team:      r.InningsTeam,
			Runs:      r.BatRuns,
			Balls:     r.BatBallsFaced,
			Fours:     r.Bat4s,
			Sixes:     r.Bat6s,
			SR:        round2(r.StrikeRate),
			Dismissal: r.BatDismissal,
			Wickets:   r.BowlWickets,
			BallsBowl: r.BowlBallsBowled,
			Conceded:  r.BowlRunsConceded,
			Economy:   round2(r.Economy),
		})
	}

	doc := map[string]interface{}{
		"subject": "match",
		"teams":   match.Teams,
		"date":    match.Date,
		"event":   match.EventName,
		"venue":   match.Venue,
		"result":  fmt.Sprintf("%s %s", match.ResultWinner, match.ResultBy),
		"innings": innings,
		"players": players,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
