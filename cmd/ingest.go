package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amribanerjee/cricmetrics/internal/aggregator"
	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/source"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var (
	ingestForce    bool
	ingestParallel int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir-or-file>...",
	Short: "Ingest match JSON files and store per-player stats and deliveries",
	Long: `Reads Cricsheet-style match JSON (plain, .gz, or .zst), aggregates each
match into per-player innings stats and per-delivery rows, and stores them.

With no arguments, the source-dir from the [ingest] section of the
config file is used.

A match that is already stored is skipped unless --force is given.
Malformed files are reported and skipped; the batch fails only when no
match could be ingested at all.`,
	Args: cobra.ArbitraryArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "re-ingest matches that are already stored")
	ingestCmd.Flags().IntVar(&ingestParallel, "parallel", runtime.NumCPU(), "max matches decoded concurrently")
}

// ingestTarget is one match file to decode, resolved from the args.
type ingestTarget struct {
	dir string
	id  string
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cfg, err := loadFileConfig()
		if err != nil {
			return err
		}
		if cfg.Ingest.SourceDir == nil || *cfg.Ingest.SourceDir == "" {
			return fmt.Errorf("no input: pass a directory or file, or set source-dir in %s", configPath)
		}
		args = []string{*cfg.Ingest.SourceDir}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	targets, err := resolveTargets(args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no match files found under %s", strings.Join(args, ", "))
	}

	var (
		mu      sync.Mutex
		stored  int
		skipped int
		failed  int
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(ingestParallel)

	for _, t := range targets {
		t := t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			exists, err := db.MatchExists(t.id)
			if err != nil {
				return fmt.Errorf("check match %s: %w", t.id, err)
			}
			if exists && !ingestForce {
				mu.Lock()
				skipped++
				mu.Unlock()
				fmt.Fprintf(os.Stdout, "  [skip] %s: already stored\n", t.id)
				return nil
			}

			m, err := source.NewDirSource(t.dir).ReadMatch(t.id)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "  [error] %s: %v\n", t.id, err)
				return nil
			}

			flat, balls, summaries, err := aggregator.AssembleMatch(m)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "  [error] %s: aggregate: %v\n", t.id, err)
				return nil
			}

			// Writes are serialized: SQLite holds a single writer lock.
			mu.Lock()
			defer mu.Unlock()
			if err := db.InsertMatch(m.Info, m.ID); err != nil {
				return fmt.Errorf("insert match %s: %w", m.ID, err)
			}
			if err := db.InsertFlatRows(flat); err != nil {
				return fmt.Errorf("insert player stats %s: %w", m.ID, err)
			}
			if err := db.InsertBallRows(balls); err != nil {
				return fmt.Errorf("insert deliveries %s: %w", m.ID, err)
			}
			stored++
			fmt.Fprintf(os.Stdout, "  [ok] %s: %s  (%d players, %d balls)\n",
				m.ID, scoreline(summaries), len(flat), len(balls))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nDone: %d stored, %d skipped, %d failed\n", stored, skipped, failed)
	if stored == 0 && skipped == 0 {
		return fmt.Errorf("no matches ingested")
	}
	return nil
}

// resolveTargets expands directory args into their match ids and keeps file
// args as single targets.
func resolveTargets(args []string) ([]ingestTarget, error) {
	var targets []ingestTarget
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if fi.IsDir() {
			ids, err := source.NewDirSource(arg).ListMatches()
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				targets = append(targets, ingestTarget{dir: arg, id: id})
			}
			continue
		}
		dir := filepath.Dir(arg)
		id := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(
			filepath.Base(arg), ".zst"), ".gz"), ".json")
		targets = append(targets, ingestTarget{dir: dir, id: id})
	}
	return targets, nil
}

// scoreline renders innings summaries as "TeamA 160/5 v TeamB 142/8".
func scoreline(summaries []model.InningsSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		parts = append(parts, fmt.Sprintf("%s %d/%d", s.Team, s.TotalRuns, s.WicketsLost))
	}
	return strings.Join(parts, " v ")
}
