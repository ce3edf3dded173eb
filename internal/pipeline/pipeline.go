// Package pipeline orchestrates a load cycle: raw extracts are cleaned into
// per-entity artifacts, the artifacts are merged into the graph and warehouse,
// and consumed files are rotated into backups. Stages run strictly in
// sequence; each stage fully consumes its input before the next begins.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dineshkm/fingraph/internal/clean"
	"github.com/dineshkm/fingraph/internal/config"
	"github.com/dineshkm/fingraph/internal/csvio"
	"github.com/dineshkm/fingraph/internal/domain"
	"github.com/dineshkm/fingraph/internal/graph"
	"github.com/dineshkm/fingraph/internal/loader"
	"github.com/dineshkm/fingraph/internal/warehouse"
)

// ErrNoInput indicates the incoming directories held no raw files.
var ErrNoInput = errors.New("no raw input files found")

// ErrNoCleanArtifact indicates the load stage found nothing to load.
var ErrNoCleanArtifact = errors.New("no clean artifacts found")

const backupTagLayout = "20060102"

// Pipeline wires the cleaning and loading stages over a directory tree.
type Pipeline struct {
	data   config.DataConfig
	logger *slog.Logger
	nowFn  func() time.Time
}

// New constructs a Pipeline.
func New(data config.DataConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		data:   data,
		logger: logger,
		nowFn:  time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (p *Pipeline) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		p.nowFn = nowFn
	}
}

// CleanSummary reports per-stage row counts for one cleaning run. Referential
// drops are silent by design, so reduced counts are their only trace.
type CleanSummary struct {
	CycleID           string
	RawCustomers      int
	CleanCustomers    int
	RawAccounts       int
	CleanAccounts     int
	RawTransactions   int
	CleanTransactions int
}

// Clean reads every raw extract, applies normalization, deduplication and
// referential filtering in dependency order (customers, then accounts, then
// transactions), writes one clean artifact per entity, and relocates consumed
// raw files to the backup tree.
func (p *Pipeline) Clean(ctx context.Context) (CleanSummary, error) {
	summary := CleanSummary{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle", summary.CycleID, "stage", "clean")
	tag := p.nowFn().Format(backupTagLayout)

	customerFiles, err := csvio.ListFiles(p.data.RawDir(config.CustomerDir))
	if err != nil {
		return summary, err
	}
	accountFiles, err := csvio.ListFiles(p.data.RawDir(config.AccountDir))
	if err != nil {
		return summary, err
	}
	txnFiles, err := csvio.ListFiles(p.data.RawDir(config.TransactionDir))
	if err != nil {
		return summary, err
	}
	if len(customerFiles)+len(accountFiles)+len(txnFiles) == 0 {
		return summary, ErrNoInput
	}

	var rawCustomers []domain.RawCustomer
	for _, path := range customerFiles {
		rows, err := csvio.ReadRawCustomers(path)
		if err != nil {
			return summary, err
		}
		rawCustomers = append(rawCustomers, rows...)
	}
	var rawAccounts []domain.RawAccount
	for _, path := range accountFiles {
		rows, err := csvio.ReadRawAccounts(path)
		if err != nil {
			return summary, err
		}
		rawAccounts = append(rawAccounts, rows...)
	}
	var rawTxns []domain.RawTransaction
	for _, path := range txnFiles {
		rows, err := csvio.ReadRawTransactions(path)
		if err != nil {
			return summary, err
		}
		rawTxns = append(rawTxns, rows...)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	// Customers must be fully cleaned before accounts are filtered, and
	// accounts before transactions. This ordering is a hard dependency.
	customers := clean.Customers(rawCustomers)
	accounts := clean.Accounts(rawAccounts, clean.CustomerKeys(customers))
	txns := clean.Transactions(rawTxns, clean.AccountKeys(accounts))

	summary.RawCustomers = len(rawCustomers)
	summary.CleanCustomers = len(customers)
	summary.RawAccounts = len(rawAccounts)
	summary.CleanAccounts = len(accounts)
	summary.RawTransactions = len(rawTxns)
	summary.CleanTransactions = len(txns)

	customerArtifact := filepath.Join(p.data.CleanDir(config.CustomerDir), fmt.Sprintf("customers_%s.csv", tag))
	if err := csvio.WriteCustomers(customerArtifact, customers); err != nil {
		return summary, err
	}
	accountArtifact := filepath.Join(p.data.CleanDir(config.AccountDir), fmt.Sprintf("accounts_%s.csv", tag))
	if err := csvio.WriteAccounts(accountArtifact, accounts); err != nil {
		return summary, err
	}
	txnArtifact := filepath.Join(p.data.CleanDir(config.TransactionDir), fmt.Sprintf("transactions_%s.csv", tag))
	if err := csvio.WriteTransactions(txnArtifact, txns); err != nil {
		return summary, err
	}

	for entity, files := range map[string][]string{
		config.CustomerDir:    customerFiles,
		config.AccountDir:     accountFiles,
		config.TransactionDir: txnFiles,
	} {
		for _, path := range files {
			if _, err := csvio.MoveToBackup(path, p.data.RawBackupDir(entity), tag); err != nil {
				return summary, err
			}
		}
	}

	logger.Info("clean stage complete",
		"customers_in", summary.RawCustomers, "customers_out", summary.CleanCustomers,
		"accounts_in", summary.RawAccounts, "accounts_out", summary.CleanAccounts,
		"transactions_in", summary.RawTransactions, "transactions_out", summary.CleanTransactions)
	return summary, nil
}

// LoadSummary reports what one load run merged into the stores.
type LoadSummary struct {
	CycleID         string
	Customers       int
	Accounts        int
	Transactions    int
	WarehouseLoaded bool
}

// Load reads the clean artifacts, merges them into the graph in the mandatory
// step order, mirrors them into the warehouse when a store is supplied, and
// relocates the consumed clean files to the backup tree. The graph client and
// warehouse store lifecycles belong to the caller.
func (p *Pipeline) Load(ctx context.Context, client graph.Client, store warehouse.Store) (LoadSummary, error) {
	summary := LoadSummary{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle", summary.CycleID, "stage", "load")
	tag := p.nowFn().Format(backupTagLayout)

	customerFiles, err := csvio.ListFiles(p.data.CleanDir(config.CustomerDir))
	if err != nil {
		return summary, err
	}
	accountFiles, err := csvio.ListFiles(p.data.CleanDir(config.AccountDir))
	if err != nil {
		return summary, err
	}
	txnFiles, err := csvio.ListFiles(p.data.CleanDir(config.TransactionDir))
	if err != nil {
		return summary, err
	}
	if len(customerFiles)+len(accountFiles)+len(txnFiles) == 0 {
		return summary, ErrNoCleanArtifact
	}

	var ds loader.Dataset
	for _, path := range customerFiles {
		rows, err := csvio.ReadCustomers(path)
		if err != nil {
			return summary, err
		}
		ds.Customers = append(ds.Customers, rows...)
	}
	for _, path := range accountFiles {
		rows, err := csvio.ReadAccounts(path)
		if err != nil {
			return summary, err
		}
		ds.Accounts = append(ds.Accounts, rows...)
	}
	for _, path := range txnFiles {
		rows, err := csvio.ReadTransactions(path)
		if err != nil {
			return summary, err
		}
		ds.Transactions = append(ds.Transactions, rows...)
	}
	summary.Customers = len(ds.Customers)
	summary.Accounts = len(ds.Accounts)
	summary.Transactions = len(ds.Transactions)

	if err := loader.New(client, logger).Load(ctx, ds); err != nil {
		return summary, err
	}
	logger.Info("graph load complete",
		"customers", summary.Customers, "accounts", summary.Accounts, "transactions", summary.Transactions)

	if store != nil {
		if err := p.loadWarehouse(ctx, store, ds); err != nil {
			return summary, err
		}
		summary.WarehouseLoaded = true
		logger.Info("warehouse load complete",
			"customers", summary.Customers, "accounts", summary.Accounts, "transactions", summary.Transactions)
	}

	for entity, files := range map[string][]string{
		config.CustomerDir:    customerFiles,
		config.AccountDir:     accountFiles,
		config.TransactionDir: txnFiles,
	} {
		for _, path := range files {
			if _, err := csvio.MoveToBackup(path, p.data.CleanBackupDir(entity), tag); err != nil {
				return summary, err
			}
		}
	}

	return summary, nil
}

// Run executes a full load cycle: clean then load.
func (p *Pipeline) Run(ctx context.Context, client graph.Client, store warehouse.Store) error {
	if _, err := p.Clean(ctx); err != nil {
		return fmt.Errorf("clean stage: %w", err)
	}
	if _, err := p.Load(ctx, client, store); err != nil {
		return fmt.Errorf("load stage: %w", err)
	}
	return nil
}

func (p *Pipeline) loadWarehouse(ctx context.Context, store warehouse.Store, ds loader.Dataset) error {
	if err := store.EnsureTables(ctx); err != nil {
		return err
	}
	if err := store.UpsertCustomers(ctx, ds.Customers); err != nil {
		return fmt.Errorf("warehouse customers: %w", err)
	}
	if err := store.UpsertAccounts(ctx, ds.Accounts); err != nil {
		return fmt.Errorf("warehouse accounts: %w", err)
	}
	if err := store.UpsertTransactions(ctx, ds.Transactions); err != nil {
		return fmt.Errorf("warehouse transactions: %w", err)
	}
	return nil
}
