package csvio

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dineshkm/fingraph/internal/domain"
)

func TestCustomersRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean", "customers.csv")

	customers := []domain.Customer{
		{CustomerID: "CUST-001", Name: "Jane Doe", DOB: "1985-06-12", KYCStatus: "VERIFIED", Email: "jane@example.com", Phone: "+15551234567", Address: "1 Main St", Country: "USA"},
		{CustomerID: "CUST-002", Name: "", DOB: "", KYCStatus: "", Email: "", Phone: "", Address: "", Country: ""},
	}
	if err := WriteCustomers(path, customers); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadCustomers(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, customers) {
		t.Fatalf("round trip mismatch:\ngot  %#v\nwant %#v", got, customers)
	}
}

func TestTransactionsRoundTripPreservesNullAmount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transactions.csv")

	amount := 1234.56
	txns := []domain.Transaction{
		{TxnID: "TXN-1", SrcAccountID: "ACC-001", DstAccountID: "ACC-002", Amount: &amount, Currency: "USD", Timestamp: "2024-03-15T10:30:00", Channel: "ONLINE", Status: "SETTLED"},
		{TxnID: "TXN-2", SrcAccountID: "ACC-002", DstAccountID: "ACC-001", Amount: nil, Currency: "USD", Timestamp: "1970-01-01T00:00:00", Channel: "", Status: ""},
	}
	if err := WriteTransactions(path, txns); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].Amount == nil || *got[0].Amount != amount {
		t.Errorf("amount = %v, want %v", got[0].Amount, amount)
	}
	if got[1].Amount != nil {
		t.Errorf("expected nil amount, got %v", *got[1].Amount)
	}
}

func TestReadRawHandlesShuffledAndMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.csv")
	content := "currency,account_id,customer_id\nUSD,ACC-001,CUST-001\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	accounts, err := ReadRawAccounts(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	a := accounts[0]
	if a.AccountID != "ACC-001" || a.CustomerID != "CUST-001" || a.Currency != "USD" {
		t.Errorf("unexpected row: %#v", a)
	}
	if a.Status != "" || a.BranchID != "" {
		t.Errorf("missing columns should read as empty, got %#v", a)
	}
}

func TestReadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	customers, err := ReadRawCustomers(path)
	if err != nil {
		t.Fatalf("expected no error for empty file, got %v", err)
	}
	if len(customers) != 0 {
		t.Fatalf("expected 0 rows, got %d", len(customers))
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestListFilesMissingDir(t *testing.T) {
	files, err := ListFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("missing dir should not error, got %v", err)
	}
	if files != nil {
		t.Fatalf("expected nil, got %v", files)
	}
}

func TestMoveToBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "customers.csv")
	if err := os.WriteFile(src, []byte("customer_id\nCUST-001\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	backupDir := filepath.Join(dir, "backup", "customer")
	dest, err := MoveToBackup(src, backupDir, "20250101")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if want := filepath.Join(backupDir, "customers_20250101.csv"); dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("source should be gone, stat err = %v", err)
	}
	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(content) != "customer_id\nCUST-001\n" {
		t.Errorf("content altered: %q", content)
	}
}
