package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kiltia/analyst/config"
	"github.com/kiltia/analyst/internal"
	"github.com/kiltia/analyst/pkg/log"
)

var (
	file     = flag.String("file", "", "report to analyze (.txt, .csv or .pdf)")
	question = flag.String("question", "", "question about the report")
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := log.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := internal.RunApplication(cfg, *file, *question, os.Stdout); err != nil {
		logger.Sugar().Errorw("request failed", "error", err)
		os.Exit(1)
	}
}
