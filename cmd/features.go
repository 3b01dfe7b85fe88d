package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amribanerjee/cricmetrics/internal/features"
	"github.com/amribanerjee/cricmetrics/internal/sink"
	"github.com/amribanerjee/cricmetrics/internal/storage"
)

var (
	featuresWindow    int
	featuresOvers     int
	featuresChaseOnly bool
	featuresOut       string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Derive per-delivery ML features and write them as CSV",
	Long: `Reads all stored deliveries and derives rolling form, match context,
and next-ball target columns, one row per delivery. The last ball of
every innings is dropped because it has no next-ball target.

Flags override values from the [features] section of the config file.`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().IntVar(&featuresWindow, "window", features.DefaultWindow, "rolling window size in deliveries")
	featuresCmd.Flags().IntVar(&featuresOvers, "overs", features.DefaultOversPerInnings, "overs per innings")
	featuresCmd.Flags().BoolVar(&featuresChaseOnly, "chase-only", false, "compute required run rate for second innings only")
	featuresCmd.Flags().StringVar(&featuresOut, "out", "", "output CSV path (default: stdout)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("window") && cfg.Features.WindowSize != nil {
		featuresWindow = *cfg.Features.WindowSize
	}
	if !cmd.Flags().Changed("overs") && cfg.Features.OversPerInnings != nil {
		featuresOvers = *cfg.Features.OversPerInnings
	}
	if !cmd.Flags().Changed("chase-only") && cfg.Features.ChaseOnly != nil {
		featuresChaseOnly = *cfg.Features.ChaseOnly
	}
	if !cmd.Flags().Changed("out") && cfg.Features.OutputPath != nil {
		featuresOut = *cfg.Features.OutputPath
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	balls, err := db.GetAllBallRows()
	if err != nil {
		return fmt.Errorf("load deliveries: %w", err)
	}
	if len(balls) == 0 {
		return fmt.Errorf("no deliveries stored: run 'cricmetrics ingest <dir>' first")
	}

	engine := features.New(featuresWindow, featuresOvers, featuresChaseOnly)
	rows := engine.Build(balls)

	out := os.Stdout
	if featuresOut != "" {
		f, err := os.Create(featuresOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", featuresOut, err)
		}
		defer f.Close()
		out = f
	}
	if err := sink.WriteFeatureCSV(out, rows); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	if featuresOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d feature rows to %s (window=%d)\n", len(rows), featuresOut, featuresWindow)
	}
	return nil
}
