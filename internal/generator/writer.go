package generator

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dineshkm/fingraph/internal/config"
)

// WriteDataset serializes the dataset as one raw CSV per entity under the raw
// directory tree, mirroring how upstream extracts are dropped off.
func WriteDataset(ds Dataset, data config.DataConfig) error {
	customerRows := make([][]string, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		customerRows = append(customerRows, []string{c.CustomerID, c.Name, c.DOB, c.KYCStatus, c.Email, c.Phone, c.Address, c.Country})
	}
	customerPath := filepath.Join(data.RawDir(config.CustomerDir), "customers.csv")
	if err := writeCSV(customerPath, []string{"customer_id", "name", "dob", "kyc_status", "email", "phone", "address", "country"}, customerRows); err != nil {
		return err
	}

	accountRows := make([][]string, 0, len(ds.Accounts))
	for _, a := range ds.Accounts {
		accountRows = append(accountRows, []string{a.AccountID, a.CustomerID, a.Type, a.Currency, a.OpenedAt, a.Status, a.BranchID})
	}
	accountPath := filepath.Join(data.RawDir(config.AccountDir), "accounts.csv")
	if err := writeCSV(accountPath, []string{"account_id", "customer_id", "type", "currency", "opened_at", "status", "branch_id"}, accountRows); err != nil {
		return err
	}

	txnRows := make([][]string, 0, len(ds.Transactions))
	for _, t := range ds.Transactions {
		txnRows = append(txnRows, []string{t.TxnID, t.SrcAccountID, t.DstAccountID, t.Amount, t.Currency, t.Timestamp, t.Channel, t.Status})
	}
	txnPath := filepath.Join(data.RawDir(config.TransactionDir), "transactions.csv")
	return writeCSV(txnPath, []string{"txn_id", "src_account_id", "dst_account_id", "amount", "currency", "ts", "channel", "status"}, txnRows)
}

func writeCSV(path string, header []string, rows [][]string) error {
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
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row of %s: %w", path, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
