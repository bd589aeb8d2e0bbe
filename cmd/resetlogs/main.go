// Command resetlogs clears the snapshot history. Child rows cascade from the
// parent log rows. With -before, only rows older than the given RFC 3339
// timestamp are removed; -yes is required to actually delete anything.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"server/internal/infra"
	"server/internal/sqlinline"
)

func main() {
	before := flag.String("before", "", "delete only snapshots captured before this RFC 3339 timestamp")
	yes := flag.Bool("yes", false, "confirm deletion")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !*yes {
		logger.Fatal().Msg("refusing to delete without -yes")
	}

	var cutoff time.Time
	if *before != "" {
		cutoff, err = time.Parse(time.RFC3339, *before)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid -before timestamp")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	if cutoff.IsZero() {
		tag, err := sqlRunner.Exec(ctx, sqlinline.QDeleteAllLogs)
		if err != nil {
			logger.Fatal().Err(err).Msg("delete failed")
		}
		logger.Info().Int64("deleted", tag.RowsAffected()).Msg("snapshot history cleared")
		return
	}

	tag, err := sqlRunner.Exec(ctx, sqlinline.QDeleteLogsBefore, cutoff)
	if err != nil {
		logger.Fatal().Err(err).Msg("delete failed")
	}
	logger.Info().Int64("deleted", tag.RowsAffected()).Time("before", cutoff).Msg("old snapshots cleared")
}
