package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"textqa-enrich/internal/config"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/service"
	"textqa-enrich/internal/webview"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "textqa-enrich").Info("starting service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// report what is there; a missing dataset is shown to visitors, not fatal
	log.WithField("dataset_path", cfg.DatasetPath).Info("checking dataset")
	if ds, err := dataset.Load(ctx, cfg.DatasetPath); err != nil {
		log.WithError(err).Warn("dataset not readable yet")
	} else {
		log.WithField("total_rows", ds.Len()).WithField("columns", ds.Columns).Info("dataset loaded")
	}

	driver, err := service.NewDriver(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("enrichment services unavailable, /process disabled")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	if err := webview.New(cfg.DatasetPath, driver).ListenAndServe(ctx, addr); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
}
