// Package csvio reads and writes the tabular entity files the pipeline
// exchanges: raw extracts on the way in, clean artifacts on the way out, plus
// the incoming-directory and backup-relocation contract around them.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dineshkm/fingraph/internal/domain"
)

// ReadRawCustomers loads a raw customer extract.
func ReadRawCustomers(path string) ([]domain.RawCustomer, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.RawCustomer, 0, len(table.rows))
	for _, row := range table.rows {
		customers = append(customers, domain.RawCustomer{
			CustomerID: table.get(row, "customer_id"),
			Name:       table.get(row, "name"),
			DOB:        table.get(row, "dob"),
			KYCStatus:  table.get(row, "kyc_status"),
			Email:      table.get(row, "email"),
			Phone:      table.get(row, "phone"),
			Address:    table.get(row, "address"),
			Country:    table.get(row, "country"),
		})
	}
	return customers, nil
}

// ReadRawAccounts loads a raw account extract.
func ReadRawAccounts(path string) ([]domain.RawAccount, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.RawAccount, 0, len(table.rows))
	for _, row := range table.rows {
		accounts = append(accounts, domain.RawAccount{
			AccountID:  table.get(row, "account_id"),
			CustomerID: table.get(row, "customer_id"),
			Type:       table.get(row, "type"),
			Currency:   table.get(row, "currency"),
			OpenedAt:   table.get(row, "opened_at"),
			Status:     table.get(row, "status"),
			BranchID:   table.get(row, "branch_id"),
		})
	}
	return accounts, nil
}

// ReadRawTransactions loads a raw transaction extract.
func ReadRawTransactions(path string) ([]domain.RawTransaction, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	txns := make([]domain.RawTransaction, 0, len(table.rows))
	for _, row := range table.rows {
		txns = append(txns, domain.RawTransaction{
			TxnID:        table.get(row, "txn_id"),
			SrcAccountID: table.get(row, "src_account_id"),
			DstAccountID: table.get(row, "dst_account_id"),
			Amount:       table.get(row, "amount"),
			Currency:     table.get(row, "currency"),
			Timestamp:    table.get(row, "ts"),
			Channel:      table.get(row, "channel"),
			Status:       table.get(row, "status"),
		})
	}
	return txns, nil
}

// ReadCustomers loads a clean customer artifact.
func ReadCustomers(path string) ([]domain.Customer, error) {
	raws, err := ReadRawCustomers(path)
	if err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(raws))
	for _, r := range raws {
		customers = append(customers, domain.Customer(r))
	}
	return customers, nil
}

// ReadAccounts loads a clean account artifact.
func ReadAccounts(path string) ([]domain.Account, error) {
	raws, err := ReadRawAccounts(path)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(raws))
	for _, r := range raws {
		accounts = append(accounts, domain.Account(r))
	}
	return accounts, nil
}

// ReadTransactions loads a clean transaction artifact, parsing amounts back
// into their numeric form. Clean artifacts never carry an unparsable amount,
// but an empty cell still maps to nil rather than zero.
func ReadTransactions(path string) ([]domain.Transaction, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	txns := make([]domain.Transaction, 0, len(table.rows))
	for _, row := range table.rows {
		txn := domain.Transaction{
			TxnID:        table.get(row, "txn_id"),
			SrcAccountID: table.get(row, "src_account_id"),
			DstAccountID: table.get(row, "dst_account_id"),
			Currency:     table.get(row, "currency"),
			Timestamp:    table.get(row, "ts"),
			Channel:      table.get(row, "channel"),
			Status:       table.get(row, "status"),
		}
		if cell := table.get(row, "amount"); cell != "" {
			amount, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("parse amount %q in %s: %w", cell, path, err)
			}
			txn.Amount = &amount
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

type table struct {
	cols map[string]int
	rows [][]string
}

func (t table) get(row []string, name string) string {
	idx, ok := t.cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readTable(path string) (table, error) {
	file, err := os.Open(path)
	if err != nil {
		return table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return table{cols: map[string]int{}}, nil
	}
	if err != nil {
		return table{}, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("read rows of %s: %w", path, err)
	}
	return table{cols: cols, rows: rows}, nil
}
