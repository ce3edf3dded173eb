package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dineshkm/fingraph/internal/clean"
	"github.com/dineshkm/fingraph/internal/domain"
)

// PostgresStore applies entity batches against dim_customer, dim_account and
// fact_txn using INSERT .. ON CONFLICT upserts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create warehouse pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verify warehouse connectivity: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureTables creates the warehouse tables when absent. Safe to repeat.
func (s *PostgresStore) EnsureTables(ctx context.Context) error {
	for _, ddl := range []string{createCustomerTableSQL, createAccountTableSQL, createTxnTableSQL} {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure warehouse tables: %w", err)
		}
	}
	return nil
}

// UpsertCustomers merges the batch into dim_customer keyed by customer_id.
func (s *PostgresStore) UpsertCustomers(ctx context.Context, customers []domain.Customer) error {
	batch := &pgx.Batch{}
	for _, c := range customers {
		batch.Queue(upsertCustomerSQL, customerArgs(c)...)
	}
	return s.sendBatch(ctx, batch, "dim_customer")
}

// UpsertAccounts merges the batch into dim_account keyed by account_id.
func (s *PostgresStore) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	batch := &pgx.Batch{}
	for _, a := range accounts {
		batch.Queue(upsertAccountSQL, accountArgs(a)...)
	}
	return s.sendBatch(ctx, batch, "dim_account")
}

// UpsertTransactions merges the batch into fact_txn keyed by txn_id.
func (s *PostgresStore) UpsertTransactions(ctx context.Context, txns []domain.Transaction) error {
	batch := &pgx.Batch{}
	for _, t := range txns {
		batch.Queue(upsertTxnSQL, txnArgs(t)...)
	}
	return s.sendBatch(ctx, batch, "fact_txn")
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// sendBatch runs the queued upserts inside one transaction so an entity batch
// commits all-or-nothing.
func (s *PostgresStore) sendBatch(ctx context.Context, batch *pgx.Batch, tableName string) error {
	if batch.Len() == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s batch: %w", tableName, err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("upsert row %d into %s: %w", i+1, tableName, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close %s batch: %w", tableName, err)
	}
	return tx.Commit(ctx)
}

func customerArgs(c domain.Customer) []any {
	return []any{
		c.CustomerID,
		nullString(c.Name),
		nullDate(c.DOB),
		nullString(c.KYCStatus),
		nullString(c.Email),
		nullString(c.Phone),
		nullString(c.Address),
		nullString(c.Country),
	}
}

func accountArgs(a domain.Account) []any {
	return []any{
		a.AccountID,
		a.CustomerID,
		nullString(a.Type),
		nullString(a.Currency),
		nullTimestamp(a.OpenedAt),
		nullString(a.Status),
		nullString(a.BranchID),
	}
}

func txnArgs(t domain.Transaction) []any {
	return []any{
		t.TxnID,
		t.SrcAccountID,
		t.DstAccountID,
		t.Amount,
		nullString(t.Currency),
		nullTimestamp(t.Timestamp),
		nullString(t.Channel),
		nullString(t.Status),
	}
}

// nullString maps the clean-artifact null convention (empty string) to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(s string) any {
	if s == "" {
		return nil
	}
	t, err := time.Parse(clean.DateLayout, s)
	if err != nil {
		return nil
	}
	return t
}

func nullTimestamp(s string) any {
	if s == "" {
		return nil
	}
	t, err := time.Parse(clean.TimestampLayout, s)
	if err != nil {
		return nil
	}
	return t
}

const createCustomerTableSQL = `
CREATE TABLE IF NOT EXISTS dim_customer (
	customer_id TEXT PRIMARY KEY,
	name        TEXT,
	dob         DATE,
	kyc_status  TEXT,
	email       TEXT,
	phone       TEXT,
	address     TEXT,
	country     TEXT
)`

const createAccountTableSQL = `
CREATE TABLE IF NOT EXISTS dim_account (
	account_id  TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	type        TEXT,
	currency    TEXT,
	opened_at   TIMESTAMP,
	status      TEXT,
	branch_id   TEXT
)`

const createTxnTableSQL = `
CREATE TABLE IF NOT EXISTS fact_txn (
	txn_id         TEXT PRIMARY KEY,
	src_account_id TEXT NOT NULL,
	dst_account_id TEXT NOT NULL,
	amount         DOUBLE PRECISION,
	currency       TEXT,
	ts             TIMESTAMP,
	channel        TEXT,
	status         TEXT
)`

const upsertCustomerSQL = `
INSERT INTO dim_customer (customer_id, name, dob, kyc_status, email, phone, address, country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (customer_id) DO UPDATE SET
	name = EXCLUDED.name,
	dob = EXCLUDED.dob,
	kyc_status = EXCLUDED.kyc_status,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	address = EXCLUDED.address,
	country = EXCLUDED.country`

const upsertAccountSQL = `
INSERT INTO dim_account (account_id, customer_id, type, currency, opened_at, status, branch_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (account_id) DO UPDATE SET
	customer_id = EXCLUDED.customer_id,
	type = EXCLUDED.type,
	currency = EXCLUDED.currency,
	opened_at = EXCLUDED.opened_at,
	status = EXCLUDED.status,
	branch_id = EXCLUDED.branch_id`

const upsertTxnSQL = `
INSERT INTO fact_txn (txn_id, src_account_id, dst_account_id, amount, currency, ts, channel, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (txn_id) DO UPDATE SET
	src_account_id = EXCLUDED.src_account_id,
	dst_account_id = EXCLUDED.dst_account_id,
	amount = EXCLUDED.amount,
	currency = EXCLUDED.currency,
	ts = EXCLUDED.ts,
	channel = EXCLUDED.channel,
	status = EXCLUDED.status`
