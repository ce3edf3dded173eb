package clean

import (
	"testing"

	"github.com/dineshkm/fingraph/internal/domain"
)

func TestCustomersFirstNonNullWins(t *testing.T) {
	raws := []domain.RawCustomer{
		{CustomerID: "cust-001", Name: "jane doe", Email: "", Phone: "(555) 123-4567"},
		{CustomerID: " CUST-001 ", Name: "", Email: "Jane@Example.com", Phone: ""},
	}

	cleaned := Customers(raws)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(cleaned))
	}

	c := cleaned[0]
	if c.CustomerID != "CUST-001" {
		t.Errorf("customer_id = %q", c.CustomerID)
	}
	if c.Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", c.Name)
	}
	if c.Email != "jane@example.com" {
		t.Errorf("email = %q, want jane@example.com (first non-null)", c.Email)
	}
	if c.Phone != "+15551234567" {
		t.Errorf("phone = %q, want +15551234567 (first non-null)", c.Phone)
	}
}

func TestCustomersDeterministicOrder(t *testing.T) {
	raws := []domain.RawCustomer{
		{CustomerID: "B-2", Email: "b@example.com"},
		{CustomerID: "A-1", Email: "a@example.com"},
		{CustomerID: "A-1", Email: "other@example.com"},
	}

	cleaned := Customers(raws)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(cleaned))
	}
	if cleaned[0].CustomerID != "A-1" || cleaned[1].CustomerID != "B-2" {
		t.Fatalf("expected sorted output, got %s, %s", cleaned[0].CustomerID, cleaned[1].CustomerID)
	}
	// First row within the sorted group wins, not recency.
	if cleaned[0].Email != "a@example.com" {
		t.Errorf("email = %q, want a@example.com", cleaned[0].Email)
	}
}

func TestCustomersDropMissingID(t *testing.T) {
	cleaned := Customers([]domain.RawCustomer{{CustomerID: "  ", Name: "ghost"}})
	if len(cleaned) != 0 {
		t.Fatalf("expected 0 customers, got %d", len(cleaned))
	}
}

func TestAccountsReferentialFilter(t *testing.T) {
	customerKeys := map[string]struct{}{"CUST-001": {}}
	raws := []domain.RawAccount{
		{AccountID: "acc-001", CustomerID: "cust-001", Type: "savings", Currency: "usd", OpenedAt: "2024-01-01", Status: "active", BranchID: "br-01"},
		{AccountID: "acc-002", CustomerID: "cust-404", Type: "checking", Currency: "usd", OpenedAt: "2024-01-01", Status: "active", BranchID: "br-01"},
	}

	cleaned := Accounts(raws, customerKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 account, got %d", len(cleaned))
	}
	if cleaned[0].AccountID != "ACC-001" {
		t.Errorf("account_id = %q", cleaned[0].AccountID)
	}
	if cleaned[0].Type != "Savings" {
		t.Errorf("type = %q, want Savings", cleaned[0].Type)
	}
}

func TestAccountsExactDuplicateElimination(t *testing.T) {
	customerKeys := map[string]struct{}{"CUST-001": {}}
	row := domain.RawAccount{AccountID: "ACC-001", CustomerID: "CUST-001", Currency: "USD", OpenedAt: "2024-01-01", Status: "ACTIVE"}

	cleaned := Accounts([]domain.RawAccount{row, row, row}, customerKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 account after exact dedup, got %d", len(cleaned))
	}
}

func TestAccountsStatusNoneBecomesNull(t *testing.T) {
	customerKeys := map[string]struct{}{"CUST-001": {}}
	raws := []domain.RawAccount{
		{AccountID: "ACC-001", CustomerID: "CUST-001", Currency: "USD", OpenedAt: "2024-01-01", Status: "none"},
	}
	cleaned := Accounts(raws, customerKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 account, got %d", len(cleaned))
	}
	if cleaned[0].Status != "" {
		t.Errorf("status = %q, want empty", cleaned[0].Status)
	}
}

func TestTransactionsReferentialFilter(t *testing.T) {
	accountKeys := map[string]struct{}{"ACC-001": {}, "ACC-002": {}}
	raws := []domain.RawTransaction{
		{TxnID: "txn-1", SrcAccountID: "acc-001", DstAccountID: "acc-002", Amount: "$100.00", Currency: "usd", Timestamp: "2024-03-15T10:30:00", Channel: "online", Status: "settled"},
		{TxnID: "txn-2", SrcAccountID: "acc-001", DstAccountID: "acc-404", Amount: "50", Currency: "usd", Timestamp: "2024-03-15T10:30:00", Channel: "online", Status: "settled"},
	}

	cleaned := Transactions(raws, accountKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(cleaned))
	}
	if cleaned[0].TxnID != "TXN-1" {
		t.Errorf("txn_id = %q", cleaned[0].TxnID)
	}
	if cleaned[0].Amount == nil || *cleaned[0].Amount != 100.0 {
		t.Errorf("amount = %v, want 100", cleaned[0].Amount)
	}
}

func TestTransactionsStructuralDrop(t *testing.T) {
	accountKeys := map[string]struct{}{"ACC-001": {}, "ACC-002": {}}
	raws := []domain.RawTransaction{
		// Unparsable amount coerces to null and the row is dropped.
		{TxnID: "TXN-1", SrcAccountID: "ACC-001", DstAccountID: "ACC-002", Amount: "abc", Currency: "USD", Timestamp: "2024-03-15T10:30:00"},
		// Bad timestamp gets the epoch sentinel and survives.
		{TxnID: "TXN-2", SrcAccountID: "ACC-001", DstAccountID: "ACC-002", Amount: "25", Currency: "USD", Timestamp: "garbage"},
	}

	cleaned := Transactions(raws, accountKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(cleaned))
	}
	if cleaned[0].TxnID != "TXN-2" {
		t.Errorf("surviving txn = %q, want TXN-2", cleaned[0].TxnID)
	}
	if cleaned[0].Timestamp != EpochSentinel {
		t.Errorf("timestamp = %q, want epoch sentinel", cleaned[0].Timestamp)
	}
}

func TestTransactionsExactDuplicateElimination(t *testing.T) {
	accountKeys := map[string]struct{}{"ACC-001": {}, "ACC-002": {}}
	row := domain.RawTransaction{TxnID: "TXN-1", SrcAccountID: "ACC-001", DstAccountID: "ACC-002", Amount: "100", Currency: "USD", Timestamp: "2024-03-15T10:30:00"}

	cleaned := Transactions([]domain.RawTransaction{row, row}, accountKeys)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 transaction after exact dedup, got %d", len(cleaned))
	}
}

func TestKeySets(t *testing.T) {
	customers := []domain.Customer{{CustomerID: "CUST-001"}, {CustomerID: "CUST-002"}}
	keys := CustomerKeys(customers)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if _, ok := keys["CUST-001"]; !ok {
		t.Error("missing CUST-001")
	}

	accounts := []domain.Account{{AccountID: "ACC-001"}}
	if _, ok := AccountKeys(accounts)["ACC-001"]; !ok {
		t.Error("missing ACC-001")
	}
}
