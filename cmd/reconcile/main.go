package main

import (
	"context"
	"flag"
	"time"

	"github.com/etymograph/moderation/internal/config"
	"github.com/etymograph/moderation/internal/database"
	"github.com/etymograph/moderation/internal/logging"
	"github.com/etymograph/moderation/internal/moderation"
	"github.com/etymograph/moderation/internal/service"
	"github.com/etymograph/moderation/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Report drifted content without repairing it")
	flag.Parse()

	startTime := time.Now()
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting reconcile job", zap.Bool("dryRun", *dryRun))

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migration to ensure tables exist
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// Reconcile never escalates, so it needs no crisis claims
	svc := service.New(logger, store.NewGormStore(db), moderation.NewClassifier(moderation.DefaultLexicon()), nil, service.Config{})

	stats, err := svc.Reconcile(context.Background(), *dryRun)
	if err != nil {
		logger.Fatal("reconcile failed", zap.Error(err))
	}

	if *dryRun {
		logger.Info("[DRY RUN] no changes made")
	}
	logger.Info("reconcile complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("repaired", stats.Repaired),
		zap.Int("missingContent", stats.MissingContent),
		zap.Duration("elapsed", time.Since(startTime)),
	)
}
