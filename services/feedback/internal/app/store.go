package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akajrolkar2644/Assessment/pkg/database"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/config"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm/mock"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm/openrouter"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository/jsonfile"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository/postgres"
	redisrepo "github.com/akajrolkar2644/Assessment/services/feedback/internal/repository/redis"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/repository/sqlite"
	"github.com/akajrolkar2644/Assessment/services/feedback/migrations"
)

const serviceName = "feedback"

// OpenStore opens the review store selected by cfg.StoreBackend. The
// returned close function releases its connections.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.ReviewRepository, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendJSON:
		logger.Info("using JSON file review store", slog.String("path", cfg.ReviewsFile))
		return jsonfile.New(cfg.ReviewsFile), func() error { return nil }, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("using SQLite review store", slog.String("path", cfg.SQLitePath))
		return store, store.Close, nil

	case config.BackendPostgres:
		pgCfg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		database.RegisterPoolMetrics(pool, serviceName)
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)
		return postgres.NewReviewRepository(pool), func() error { pool.Close(); return nil }, nil

	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
		return redisrepo.NewReviewRepository(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewLLMClient builds the language model client selected by cfg.
func NewLLMClient(cfg *config.Config, logger *slog.Logger) llm.Client {
	if cfg.Provider() == config.ProviderMock {
		logger.Warn("no language model API key configured, using mock client")
		return mock.NewMockClient(logger)
	}

	logger.Info("using OpenRouter language model", slog.String("model", cfg.OpenRouterModel))
	return openrouter.New(openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		Model:   cfg.OpenRouterModel,
		BaseURL: cfg.OpenRouterURL,
		Timeout: cfg.LLMTimeout,
	}, logger)
}
