package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dineshkm/fingraph/internal/config"
	"github.com/dineshkm/fingraph/internal/csvio"
	"github.com/dineshkm/fingraph/internal/domain"
	"github.com/dineshkm/fingraph/internal/graph"
	"github.com/dineshkm/fingraph/internal/schema"
)

func TestCleanProducesArtifactsAndRotatesRaw(t *testing.T) {
	data, p := newTestPipeline(t)
	writeRawFixtures(t, data)

	summary, err := p.Clean(context.Background())
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	if summary.RawCustomers != 3 || summary.CleanCustomers != 1 {
		t.Errorf("customers %d -> %d, want 3 -> 1", summary.RawCustomers, summary.CleanCustomers)
	}
	if summary.RawAccounts != 3 || summary.CleanAccounts != 2 {
		t.Errorf("accounts %d -> %d, want 3 -> 2", summary.RawAccounts, summary.CleanAccounts)
	}
	if summary.RawTransactions != 2 || summary.CleanTransactions != 1 {
		t.Errorf("transactions %d -> %d, want 2 -> 1", summary.RawTransactions, summary.CleanTransactions)
	}

	artifact := filepath.Join(data.CleanDir(config.CustomerDir), "customers_20250101.csv")
	customers, err := csvio.ReadCustomers(artifact)
	if err != nil {
		t.Fatalf("read clean artifact: %v", err)
	}
	if len(customers) != 1 || customers[0].CustomerID != "CUST-001" {
		t.Errorf("unexpected clean customers: %#v", customers)
	}

	// Consumed raw files must be out of the incoming directory and in backup.
	left, err := csvio.ListFiles(data.RawDir(config.CustomerDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("raw files left behind: %v", left)
	}
	backup := filepath.Join(data.RawBackupDir(config.CustomerDir), "customers_20250101.csv")
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("expected raw backup at %s: %v", backup, err)
	}
}

func TestCleanWithNoInputFiles(t *testing.T) {
	_, p := newTestPipeline(t)
	if _, err := p.Clean(context.Background()); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestLoadMergesAndArchivesArtifacts(t *testing.T) {
	data, p := newTestPipeline(t)
	writeCleanFixtures(t, data)

	client := graph.NewMemoryClient()
	store := &stubStore{}

	summary, err := p.Load(context.Background(), client, store)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if summary.Customers != 1 || summary.Accounts != 2 || summary.Transactions != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !summary.WarehouseLoaded {
		t.Error("expected warehouse load")
	}

	// Constraints plus the nine merge steps.
	if got := len(client.WriteCalls()); got != len(schema.Nodes)+9 {
		t.Errorf("graph writes = %d, want %d", got, len(schema.Nodes)+9)
	}
	if !store.ensured || store.customers != 1 || store.accounts != 2 || store.txns != 1 {
		t.Errorf("store calls = %+v", store)
	}

	left, err := csvio.ListFiles(data.CleanDir(config.AccountDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("clean files left behind: %v", left)
	}
	backup := filepath.Join(data.CleanBackupDir(config.AccountDir), "accounts_20250101.csv")
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("expected clean backup at %s: %v", backup, err)
	}
}

func TestLoadWithoutWarehouseStore(t *testing.T) {
	data, p := newTestPipeline(t)
	writeCleanFixtures(t, data)

	summary, err := p.Load(context.Background(), graph.NewMemoryClient(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if summary.WarehouseLoaded {
		t.Error("warehouse should be skipped when no store is supplied")
	}
}

func TestLoadWithNoArtifacts(t *testing.T) {
	_, p := newTestPipeline(t)
	_, err := p.Load(context.Background(), graph.NewMemoryClient(), nil)
	if !errors.Is(err, ErrNoCleanArtifact) {
		t.Fatalf("expected ErrNoCleanArtifact, got %v", err)
	}
}

func TestLoadFailureLeavesArtifactsInPlace(t *testing.T) {
	data, p := newTestPipeline(t)
	writeCleanFixtures(t, data)

	boom := errors.New("connection reset")
	client := graph.NewMemoryClient().WithError(boom)

	if _, err := p.Load(context.Background(), client, nil); !errors.Is(err, boom) {
		t.Fatalf("expected graph error, got %v", err)
	}

	// Artifacts are archived only after a fully successful load, so a retry
	// picks them up again.
	left, err := csvio.ListFiles(data.CleanDir(config.CustomerDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 {
		t.Errorf("expected artifact to remain for retry, got %v", left)
	}
}

func TestWarehouseFailureSurfaces(t *testing.T) {
	data, p := newTestPipeline(t)
	writeCleanFixtures(t, data)

	boom := errors.New("relation locked")
	store := &stubStore{err: boom}

	_, err := p.Load(context.Background(), graph.NewMemoryClient(), store)
	if !errors.Is(err, boom) {
		t.Fatalf("expected warehouse error, got %v", err)
	}
	left, listErr := csvio.ListFiles(data.CleanDir(config.TransactionDir))
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(left) != 1 {
		t.Errorf("expected artifact to remain for retry, got %v", left)
	}
}

func TestRunFullCycle(t *testing.T) {
	data, p := newTestPipeline(t)
	writeRawFixtures(t, data)

	client := graph.NewMemoryClient()
	if err := p.Run(context.Background(), client, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := len(client.WriteCalls()); got != len(schema.Nodes)+9 {
		t.Errorf("graph writes = %d, want %d", got, len(schema.Nodes)+9)
	}

	// Both stages rotated their inputs.
	for _, dir := range []string{data.RawDir(config.CustomerDir), data.CleanDir(config.CustomerDir)} {
		files, err := csvio.ListFiles(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(files) != 0 {
			t.Errorf("%s not emptied: %v", dir, files)
		}
	}
}

func newTestPipeline(t *testing.T) (config.DataConfig, *Pipeline) {
	t.Helper()
	root := t.TempDir()
	data := config.DataConfig{
		RawRoot:    filepath.Join(root, "raw"),
		CleanRoot:  filepath.Join(root, "clean"),
		BackupRoot: filepath.Join(root, "backup"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(data, logger)
	p.WithClock(func() time.Time {
		return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	})
	return data, p
}

// writeRawFixtures drops one dirty extract per entity: a duplicated customer,
// an account with a dangling owner, and a transaction with a bad amount.
func writeRawFixtures(t *testing.T, data config.DataConfig) {
	t.Helper()

	writeFile(t, filepath.Join(data.RawDir(config.CustomerDir), "customers.csv"),
		"customer_id,name,dob,kyc_status,email,phone,address,country\n"+
			"cust-001,jane doe,1985-06-12,verified,,,1 Main St,usa\n"+
			"CUST-001,,,,jane@example.com,(555) 123-4567,,\n"+
			",ghost,,,,,,\n")

	writeFile(t, filepath.Join(data.RawDir(config.AccountDir), "accounts.csv"),
		"account_id,customer_id,type,currency,opened_at,status,branch_id\n"+
			"acc-001,cust-001,savings,usd,2024-01-01,active,br-01\n"+
			"acc-002,cust-001,checking,usd,2024-02-01,active,br-01\n"+
			"acc-003,cust-404,savings,usd,2024-03-01,active,br-02\n")

	writeFile(t, filepath.Join(data.RawDir(config.TransactionDir), "transactions.csv"),
		"txn_id,src_account_id,dst_account_id,amount,currency,ts,channel,status\n"+
			"txn-1,acc-001,acc-002,$100.00,usd,2024-03-15T10:30:00,online,settled\n"+
			"txn-2,acc-001,acc-002,abc,usd,2024-03-16T10:30:00,online,settled\n")
}

func writeCleanFixtures(t *testing.T, data config.DataConfig) {
	t.Helper()

	customers := []domain.Customer{
		{CustomerID: "CUST-001", Name: "Jane Doe", Country: "USA"},
	}
	if err := csvio.WriteCustomers(filepath.Join(data.CleanDir(config.CustomerDir), "customers_20250101.csv"), customers); err != nil {
		t.Fatal(err)
	}

	accounts := []domain.Account{
		{AccountID: "ACC-001", CustomerID: "CUST-001", Currency: "USD", OpenedAt: "2024-01-01T00:00:00", BranchID: "BR-01"},
		{AccountID: "ACC-002", CustomerID: "CUST-001", Currency: "USD", OpenedAt: "2024-02-01T00:00:00", BranchID: "BR-01"},
	}
	if err := csvio.WriteAccounts(filepath.Join(data.CleanDir(config.AccountDir), "accounts_20250101.csv"), accounts); err != nil {
		t.Fatal(err)
	}

	amount := 100.0
	txns := []domain.Transaction{
		{TxnID: "TXN-1", SrcAccountID: "ACC-001", DstAccountID: "ACC-002", Amount: &amount, Currency: "USD", Timestamp: "2024-03-15T10:30:00", Channel: "ONLINE", Status: "SETTLED"},
	}
	if err := csvio.WriteTransactions(filepath.Join(data.CleanDir(config.TransactionDir), "transactions_20250101.csv"), txns); err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type stubStore struct {
	ensured   bool
	customers int
	accounts  int
	txns      int
	closed    bool
	err       error
}

func (s *stubStore) EnsureTables(context.Context) error {
	s.ensured = true
	return s.err
}

func (s *stubStore) UpsertCustomers(_ context.Context, customers []domain.Customer) error {
	s.customers = len(customers)
	return s.err
}

func (s *stubStore) UpsertAccounts(_ context.Context, accounts []domain.Account) error {
	s.accounts = len(accounts)
	return s.err
}

func (s *stubStore) UpsertTransactions(_ context.Context, txns []domain.Transaction) error {
	s.txns = len(txns)
	return s.err
}

func (s *stubStore) Close() { s.closed = true }
