package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dineshkm/fingraph/internal/domain"
)

var (
	customerHeader    = []string{"customer_id", "name", "dob", "kyc_status", "email", "phone", "address", "country"}
	accountHeader     = []string{"account_id", "customer_id", "type", "currency", "opened_at", "status", "branch_id"}
	transactionHeader = []string{"txn_id", "src_account_id", "dst_account_id", "amount", "currency", "ts", "channel", "status"}
)

// WriteCustomers writes a clean customer artifact, creating parent directories.
func WriteCustomers(path string, customers []domain.Customer) error {
	records := make([][]string, 0, len(customers))
	for _, c := range customers {
		records = append(records, []string{
			c.CustomerID, c.Name, c.DOB, c.KYCStatus, c.Email, c.Phone, c.Address, c.Country,
		})
	}
	return writeTable(path, customerHeader, records)
}

// WriteAccounts writes a clean account artifact, creating parent directories.
func WriteAccounts(path string, accounts []domain.Account) error {
	records := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		records = append(records, []string{
			a.AccountID, a.CustomerID, a.Type, a.Currency, a.OpenedAt, a.Status, a.BranchID,
		})
	}
	return writeTable(path, accountHeader, records)
}

// WriteTransactions writes a clean transaction artifact, creating parent directories.
func WriteTransactions(path string, txns []domain.Transaction) error {
	records := make([][]string, 0, len(txns))
	for _, t := range txns {
		amount := ""
		if t.Amount != nil {
			amount = strconv.FormatFloat(*t.Amount, 'f', -1, 64)
		}
		records = append(records, []string{
			t.TxnID, t.SrcAccountID, t.DstAccountID, amount, t.Currency, t.Timestamp, t.Channel, t.Status,
		})
	}
	return writeTable(path, transactionHeader, records)
}

func writeTable(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row of %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
