package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/generator"
	"server/internal/infra"
	"server/internal/infra/credentials"
	"server/internal/providers/text"
	"server/internal/queue"
	"server/internal/status"
	"server/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("worker: migrations failed")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	var statusStore domain.StatusStore
	if cfg.RedisAddr != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: redis connection failed")
		}
		defer rdb.Close()
		statusStore = status.NewRedisStore(rdb)
	} else {
		logger.Warn().Msg("worker: REDIS_ADDR not set, using in-process status store (single-process dev only)")
		statusStore = status.NewMemoryStore()
	}

	catalogClient, err := catalog.NewHTTPClient(catalog.Options{
		APIKey:  cfg.TMDBAPIKey,
		BaseURL: cfg.TMDBBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure catalog client")
	}

	factory := text.NewFactory(text.FactoryOptions{
		GeminiBaseURL: cfg.GeminiBaseURL,
		GeminiModel:   cfg.GeminiModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	})
	if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("worker: no process-level ai key configured, jobs without a vaulted key use the offline fallback generator")
	}

	q := queue.New(runner, logger)
	engine := generator.NewEngine(
		catalogClient,
		repo.NewPostRepository(runner),
		repo.NewProgressRepository(runner),
		statusStore,
		logger,
	)

	w := worker.New(q, engine, credentials.NewStore(runner), factory, worker.Options{
		Concurrency:     cfg.WorkerConcurrency,
		JobsPerMinute:   cfg.WorkerJobsPerMinute,
		PollInterval:    cfg.WorkerPollInterval,
		DefaultProvider: cfg.TextProvider,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
	}, logger)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
