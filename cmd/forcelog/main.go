// Command forcelog runs one capture cycle and persists the result, outside
// the API server's schedule. Useful after changing the CMS configuration or
// when backfilling a missed day.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
	"server/internal/roblox"
	"server/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := infra.EnsureSchema(ctx, dbpool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	configRepo := repo.NewConfigRepository(sqlRunner)
	snapshotRepo := repo.NewSnapshotRepository(sqlRunner)

	client := roblox.NewClient(roblox.Options{
		GamesBaseURL:      cfg.GamesBaseURL,
		GroupsBaseURL:     cfg.GroupsBaseURL,
		ThumbnailsBaseURL: cfg.ThumbnailsBaseURL,
		Logger:            logger,
		MaxRetries:        cfg.FetchMaxRetries,
		RetryBaseDelay:    cfg.RetryBaseDelay,
		ServerErrorDelay:  cfg.RetryBaseDelay * 2,
		RequestTimeout:    cfg.FetchTimeout,
	})
	assembler := snapshot.NewAssembler(client, snapshot.AssemblerOptions{
		Concurrency: cfg.FetchConcurrency,
		BatchDelay:  cfg.BatchDelay,
		Logger:      logger,
	})
	service := snapshot.NewService(assembler, snapshot.NewCache(cfg.CacheTTL), snapshotRepo, configRepo, logger)

	if _, err := service.RefreshCache(ctx); err != nil {
		logger.Fatal().Err(err).Msg("capture cycle failed")
	}
	id, err := service.PersistCurrent(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("persist failed")
	}
	logger.Info().Int64("log_id", id).Msg("snapshot captured and persisted")
}
