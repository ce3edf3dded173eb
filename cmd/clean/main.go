package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dineshkm/fingraph/internal/config"
	"github.com/dineshkm/fingraph/internal/logging"
	"github.com/dineshkm/fingraph/internal/pipeline"
)

func main() {
	envFile := flag.String("env-file", "", "Optional path to a .env file")
	flag.Parse()

	loadEnv(*envFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "clean")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(cfg.Data, logger)
	summary, err := p.Clean(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			logger.Error("nothing to clean", "raw_dir", cfg.Data.RawRoot)
		} else {
			logger.Error("clean stage failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("clean artifacts written",
		"cycle", summary.CycleID,
		"customers", summary.CleanCustomers,
		"accounts", summary.CleanAccounts,
		"transactions", summary.CleanTransactions)
}

func loadEnv(path string) {
	if path != "" {
		_ = godotenv.Load(path)
		return
	}
	_ = godotenv.Load()
}
