package main

import (
	"context"
	"os/signal"
	"syscall"

	"fitmrp-client/internal/config"
	"fitmrp-client/internal/devserver"
	"fitmrp-client/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.L().Fatal("dev API server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	srv, err := devserver.New(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.DevSeed {
		logger.L().Info("seeded demo account",
			zap.String("email", devserver.DemoEmail),
			zap.String("password", devserver.DemoPassword),
		)
	}
	return srv.Run(ctx)
}
