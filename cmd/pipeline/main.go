package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dineshkm/fingraph/internal/config"
	"github.com/dineshkm/fingraph/internal/graph"
	"github.com/dineshkm/fingraph/internal/logging"
	"github.com/dineshkm/fingraph/internal/pipeline"
	"github.com/dineshkm/fingraph/internal/warehouse"
)

func main() {
	envFile := flag.String("env-file", "", "Optional path to a .env file")
	flag.Parse()

	if *envFile != "" {
		_ = godotenv.Load(*envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "pipeline")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	store, err := buildWarehouseStore(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create warehouse store", "error", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	start := time.Now()
	if err := pipeline.New(cfg.Data, logger).Run(ctx, client, store); err != nil {
		logger.Error("load cycle failed", "error", err)
		os.Exit(1)
	}
	logger.Info("load cycle complete", "duration", time.Since(start).String())
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for loading")
	}
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}

func buildWarehouseStore(ctx context.Context, logger *slog.Logger, cfg config.Config) (warehouse.Store, error) {
	if cfg.Warehouse.DSN == "" {
		logger.Info("warehouse DSN not set, skipping warehouse load")
		return nil, nil
	}
	store, err := warehouse.NewPostgresStore(ctx, cfg.Warehouse.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to warehouse")
	return store, nil
}
