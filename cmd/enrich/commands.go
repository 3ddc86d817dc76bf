package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"
	"textqa-enrich/internal/actionable"
	"textqa-enrich/internal/aggregator"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/extractor"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/pipeline"
	"textqa-enrich/internal/service"
	"textqa-enrich/internal/viewer"
	"textqa-enrich/internal/webview"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Turn the first N corpus lines into a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := extractor.ExtractFile(cmd.Context(), cfg.CorpusPath, cfg.DatasetPath, cfg.Limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", ds.Len(), cfg.DatasetPath)
		return nil
	},
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Add translations, questions and answers to the dataset",
	Long: `Runs the four enrichment stages over the dataset and writes it back in place.

With --schedule the run repeats on a cron expression (for example "0 3 * * *")
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := service.NewDriver(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if expr, _ := cmd.Flags().GetString("schedule"); expr != "" {
			return pipeline.Schedule(cmd.Context(), d, cfg.DatasetPath, expr)
		}
		rep, err := d.Run(cmd.Context(), cfg.DatasetPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows, %d questions, %d answers, %d failed batches in %s\n",
			rep.Rows, rep.Questions, rep.Answers, rep.FailedBatches, rep.Duration.Round(time.Millisecond))
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the enriched dataset in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if doc, _ := cmd.Flags().GetInt("doc"); doc > 0 {
			ds, err := dataset.Load(cmd.Context(), cfg.DatasetPath)
			if err != nil {
				return err
			}
			d, ok := viewer.Build(ds, doc-1)
			if !ok {
				return fmt.Errorf("no document %d (dataset has %d)", doc, viewer.DocumentCount(ds))
			}
			fmt.Fprint(cmd.OutOrStdout(), viewer.Plain(d))
			return nil
		}

		// logs would corrupt the full-screen view
		if cfg.LogFile != "" {
			f, err := logger.SetOutputFile(cfg.LogFile)
			if err != nil {
				return err
			}
			defer f.Close()
		} else {
			logger.SetOutput(io.Discard)
		}
		ds, loadErr := dataset.Load(cmd.Context(), cfg.DatasetPath)
		return viewer.Run(ds, loadErr)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print enrichment coverage for the dataset as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Load(cmd.Context(), cfg.DatasetPath)
		if err != nil {
			return err
		}
		ins := aggregator.Aggregate(ds)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"summary": dataset.Summarize(ds),
			"insight": ins,
			"action":  actionable.Generate(ins, cfg.TargetLang),
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset viewer over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := service.NewDriver(cmd.Context(), cfg)
		if err != nil {
			logger.New().WithError(err).Warn("enrichment services unavailable, /process disabled")
		}
		return webview.New(cfg.DatasetPath, d).ListenAndServe(cmd.Context(), net.JoinHostPort("", cfg.Port))
	},
}

func init() {
	extractCmd.Flags().String("in", "", "Corpus path (JSON Lines)")
	extractCmd.Flags().String("out", "", "Dataset path to write")
	extractCmd.Flags().Int("limit", extractor.DefaultLimit, "Rows to keep (<= 0 keeps all)")

	enrichCmd.Flags().Int("workers", 1, "Rows processed concurrently in the question and answer stages")
	enrichCmd.Flags().String("source", "", "Source language code, or auto")
	enrichCmd.Flags().String("target", "", "Target language code")
	enrichCmd.Flags().String("schedule", "", "Cron expression for repeated runs")
	enrichCmd.Flags().Bool("mock", false, "Use offline stand-ins for every service")

	viewCmd.Flags().Int("doc", 0, "Print document N and exit instead of opening the viewer")

	serveCmd.Flags().String("port", "", "Listen port")
	serveCmd.Flags().Bool("mock", false, "Use offline stand-ins for /process")
}
