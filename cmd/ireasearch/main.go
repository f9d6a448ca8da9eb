package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	ireasearch "github.com/notrick-no/iReasearch"
	"github.com/notrick-no/iReasearch/config"
	"github.com/notrick-no/iReasearch/internal/bootstrap"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.ConfigureLogger(cfg.Observability.Logging)

	// Log startup info
	logStartupInfo(ctx, logger, &cfg)

	// Validate configuration
	if err = bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}

	redisClient, err := initInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	assets, err := ireasearch.Assets(cfg.IsDev)
	if err != nil {
		return fmt.Errorf("load dashboard assets: %w", err)
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Redis:  redisClient,
		Assets: assets,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting ireasearch",
		"enabled_services", bootstrap.GetEnabledServices(cfg),
		"backend_url", cfg.Backend.URL,
		"session_store", string(cfg.Session.Store),
		"dev", cfg.IsDev)
}

// initInfrastructure connects Redis when sessions live there.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func initInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.IsConsoleEnabled() || cfg.Session.Store != config.SessionStoreRedis {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisConnectConfig{
		Redis:  cfg.Redis,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
