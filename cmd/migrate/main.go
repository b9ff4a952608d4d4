package main

import (
	"flag"
	"fmt"

	"fitmrp-client/internal/config"
	"fitmrp-client/internal/db"
	"fitmrp-client/internal/logger"
	"fitmrp-client/internal/tokenstore"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	mode := flag.String("mode", db.MigrateUp, "migration mode: up or down")
	dsn := flag.String("dsn", cfg.TokenStoreDSN, "credential store DSN (SQLite path or postgres:// URL)")
	flag.Parse()

	if err := run(*dsn, *mode); err != nil {
		logger.L().Fatal("migration failed", zap.String("mode", *mode), zap.Error(err))
	}
	logger.L().Info("migrations complete", zap.String("mode", *mode))
}

func run(dsn, mode string) error {
	if dsn == "" {
		return fmt.Errorf("no DSN set (use -dsn or TOKEN_STORE_DSN)")
	}

	database, dialect, err := db.NewDatabase(dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	return db.Migrate(database, dialect, tokenstore.Migrations(), mode)
}
