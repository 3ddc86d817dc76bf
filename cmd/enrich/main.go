// Command enrich extracts a text corpus into a dataset, enriches it with translations,
// questions and answers, and shows the result.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"textqa-enrich/internal/config"
	"textqa-enrich/internal/logger"
)

var (
	configPath string
	verbose    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Translate, question and answer a text corpus",
	Long: `enrich turns a JSON Lines corpus into a tabular dataset and adds English
translations, a generated question and an extracted answer to every row.

Typical flow:
  enrich extract --in data.jsonl --out data.csv
  enrich enrich --dataset data.csv
  enrich view --dataset data.csv`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // loads .env
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd)
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("dataset", "", "Dataset path (.csv, .xlsx, .db)")

	rootCmd.AddCommand(extractCmd, enrichCmd, viewCmd, statsCmd, serveCmd)
}

// applyFlags lets explicitly set flags win over file and environment.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.DatasetPath, _ = flags.GetString("dataset")
	}
	if flags.Changed("in") {
		cfg.CorpusPath, _ = flags.GetString("in")
	}
	if flags.Changed("out") {
		cfg.DatasetPath, _ = flags.GetString("out")
	}
	if flags.Changed("limit") {
		cfg.Limit, _ = flags.GetInt("limit")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("source") {
		cfg.SourceLang, _ = flags.GetString("source")
	}
	if flags.Changed("target") {
		cfg.TargetLang, _ = flags.GetString("target")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetString("port")
	}
	if flags.Changed("mock") {
		if mock, _ := flags.GetBool("mock"); mock {
			cfg.Translator.Mock = true
			cfg.QA.Mock = true
			cfg.LLM.Provider = "mock"
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.New().WithError(err).Error("command failed")
		os.Exit(1)
	}
}
