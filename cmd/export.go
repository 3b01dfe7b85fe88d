package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/model"
	"github.com/amribanerjee/cricmetrics/internal/sink"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var (
	exportMatch string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export per-player innings rows as CSV",
	Long: `Writes the flat per-player innings table — one row per player per
innings, with match metadata — as CSV. Defaults to every stored match;
use --match to restrict to one match by id prefix.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportMatch, "match", "", "restrict to one match by id prefix")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output CSV path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var rows []model.FlatRow
	if exportMatch != "" {
		match, err := db.GetMatchByPrefix(exportMatch)
		if err != nil {
			return fmt.Errorf("query match: %w", err)
		}
		if match == nil {
			return fmt.Errorf("no match found with id prefix %q", exportMatch)
		}
		rows, err = db.GetFlatRows(match.MatchID)
		if err != nil {
			return fmt.Errorf("get player stats: %w", err)
		}
	} else {
		rows, err = db.GetAllFlatRows()
		if err != nil {
			return fmt.Errorf("get player stats: %w", err)
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("nothing to export: run 'cricmetrics ingest <dir>' first")
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}
	if err := sink.WriteFlatCSV(out, rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), exportOut)
	}
	return nil
}
