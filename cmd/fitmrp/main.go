package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fitmrp-client/internal/config"
	"fitmrp-client/internal/logger"
)

func main() {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
