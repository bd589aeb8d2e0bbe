package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	httpapi "server/internal/http"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/geoip"
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

	ctx := context.Background()
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
	auditRepo := repo.NewAuditRepository(sqlRunner)

	if err := seedDefaults(ctx, configRepo, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed configuration")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}

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
	cache := snapshot.NewCache(cfg.CacheTTL)
	service := snapshot.NewService(assembler, cache, snapshotRepo, configRepo, logger)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	scheduler := snapshot.NewScheduler(service, snapshot.SchedulerOptions{
		StartupDelay:    cfg.StartupDelay,
		FetchInterval:   cfg.FetchInterval,
		PersistInterval: cfg.PersistInterval,
		Logger:          logger,
	})
	go scheduler.Run(schedulerCtx)

	app := handlers.NewApp(service, configRepo, logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		AdminToken:     cfg.AdminAPIToken,
		RateLimit:      cfg.RateLimitPerWindow,
		RateWindow:     cfg.RateLimitWindow,
		Audit:          auditRepo,
		GeoIP:          resolver,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
