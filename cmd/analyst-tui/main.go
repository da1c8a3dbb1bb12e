package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kiltia/analyst/config"
	"github.com/kiltia/analyst/pkg/cli"
	"github.com/kiltia/analyst/pkg/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	logger, err := log.Init(cli.LogConfig(cfg.Log))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := cli.Run(ctx, cfg); err != nil {
		logger.Sugar().Errorw("application stopped", "error", err)
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
