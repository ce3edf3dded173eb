package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dineshkm/fingraph/internal/config"
	"github.com/dineshkm/fingraph/internal/generator"
	"github.com/dineshkm/fingraph/internal/logging"
)

func main() {
	var (
		outDir       = flag.String("out-dir", "./data/raw", "Directory to write raw CSVs into (one subdirectory per entity)")
		customers    = flag.Int("customers", 0, "Number of customers to generate")
		accounts     = flag.Int("accounts", 0, "Number of accounts to generate")
		transactions = flag.Int("transactions", 0, "Number of transactions to generate")
		seed         = flag.Int64("seed", 0, "Random seed (0 uses the default)")
	)
	flag.Parse()

	logger := logging.New(config.LoggingConfig{Level: "info", Format: "text"}).With("component", "datagen")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gen := generator.New(generator.Config{
		NumCustomers:    *customers,
		NumAccounts:     *accounts,
		NumTransactions: *transactions,
		Seed:            *seed,
	})

	ds, err := gen.Generate(ctx)
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	data := config.DataConfig{RawRoot: *outDir}
	if err := generator.WriteDataset(ds, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	logger.Info("raw extracts written",
		"dir", *outDir,
		"customers", len(ds.Customers),
		"accounts", len(ds.Accounts),
		"transactions", len(ds.Transactions))
}
