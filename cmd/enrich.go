package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/ingest"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/source"
	"github.com/sells-group/enrich-cli/internal/store"
	"github.com/sells-group/enrich-cli/pkg/aibatch"
)

var (
	enrichFile     string
	enrichOut      string
	enrichAI       bool
	enrichEnhanced bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a spreadsheet of company leads",
	Long:  "Runs every record through the configured sources in priority order, merging results fill-empty-only, then writes the enriched set back out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := ingest.LoadFile(enrichFile)
		if err != nil {
			return err
		}
		zap.L().Info("loaded records", zap.Int("count", len(records)), zap.String("file", enrichFile))

		rules, err := loadRules()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		tracker := enrich.NewTracker()
		registry := initSources()
		sources := registry.Resolve(rules.Sources)
		orch := enrich.NewOrchestrator(sources, rules.RequiredFields)
		runner := enrich.NewRunner(orch, tracker)

		run := store.NewRun(enrichFile, rules.Sources)

		var stats model.BatchStats
		switch {
		case enrichAI:
			if cfg.Anthropic.Key == "" {
				return eris.New("anthropic key is required for --ai (ENRICH_ANTHROPIC_KEY)")
			}
			client := aibatch.NewClient(cfg.Anthropic.Key, aibatch.WithModel(cfg.Anthropic.Model))
			batchSize := rules.AIBatchSize
			if cfg.Anthropic.MaxBatchSize > 0 && batchSize > cfg.Anthropic.MaxBatchSize {
				batchSize = cfg.Anthropic.MaxBatchSize
			}
			ai := source.NewAIBatch(client, batchSize)
			stats = runner.RunAI(ctx, ai, records)
		case enrichEnhanced:
			flow := enrich.NewEnhanced(newScrapeClient(), runner, tracker, cfg.Scrape.MaxDiscovery)
			stats = flow.Run(ctx, records)
		default:
			stats = runner.Run(ctx, records)
		}
		tracker.Finish()

		run.Stats = stats
		run.FinishedAt = time.Now().UTC()
		if err := st.SaveRun(ctx, run); err != nil {
			zap.L().Warn("failed to save run history", zap.Error(err))
		}

		out := enrichOut
		if out == "" {
			out = enrichFile + ".enriched.csv"
		}
		if err := ingest.WriteFile(out, records); err != nil {
			return err
		}

		printStats(os.Stdout, stats)
		fmt.Fprintf(os.Stdout, "Output written to %s (run %s)\n", out, run.ID)
		return nil
	},
}

func printStats(w io.Writer, stats model.BatchStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%d\n", stats.Total)
	fmt.Fprintf(tw, "Success:\t%d\n", stats.Success)
	fmt.Fprintf(tw, "Partial:\t%d\n", stats.Partial)
	fmt.Fprintf(tw, "Failed:\t%d\n", stats.Failed)
	fmt.Fprintf(tw, "Cancelled:\t%d\n", stats.Cancelled)
	fmt.Fprintf(tw, "Skipped:\t%d\n", stats.Skipped)
	fmt.Fprintf(tw, "Enriched:\t%.1f%%\n", stats.EnrichedPercent())
	tw.Flush()
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichFile, "file", "f", "", "input spreadsheet (.csv or .xlsx)")
	enrichCmd.Flags().StringVarP(&enrichOut, "out", "o", "", "output CSV path (default <file>.enriched.csv)")
	enrichCmd.Flags().BoolVar(&enrichAI, "ai", false, "use the batch AI source instead of the per-record cascade")
	enrichCmd.Flags().BoolVar(&enrichEnhanced, "enhanced", false, "discover missing websites before enriching")
	enrichCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(enrichCmd)
}
