package clean

import (
	"github.com/dineshkm/fingraph/internal/domain"
)

// txnKey is the comparable projection of a transaction used for exact
// duplicate elimination (Amount is a pointer on the domain type).
type txnKey struct {
	txnID        string
	srcAccountID string
	dstAccountID string
	amount       float64
	amountNull   bool
	currency     string
	timestamp    string
	channel      string
	status       string
}

// Transactions normalizes raw transaction rows, removes exact duplicates, and
// enforces referential integrity: both src and dst account ids must resolve
// against the cleaned account set. Rows missing any structurally required
// field (txn_id, either account id, amount, currency, timestamp) are dropped
// regardless of FK validity. Accounts must be fully cleaned before this runs.
func Transactions(raws []domain.RawTransaction, accountKeys map[string]struct{}) []domain.Transaction {
	seen := make(map[txnKey]struct{}, len(raws))
	cleaned := make([]domain.Transaction, 0, len(raws))
	for _, raw := range raws {
		row := domain.Transaction{
			TxnID:        normalizeID(raw.TxnID),
			SrcAccountID: normalizeID(raw.SrcAccountID),
			DstAccountID: normalizeID(raw.DstAccountID),
			Amount:       parseAmount(raw.Amount),
			Currency:     normalizeCurrency(raw.Currency),
			Timestamp:    normalizeTimestamp(raw.Timestamp),
			Channel:      normalizeChannel(raw.Channel),
			Status:       normalizeStatus(raw.Status),
		}
		key := keyOf(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, ok := accountKeys[row.SrcAccountID]; !ok {
			continue
		}
		if _, ok := accountKeys[row.DstAccountID]; !ok {
			continue
		}
		if !structurallyValid(row) {
			continue
		}
		cleaned = append(cleaned, row)
	}
	return cleaned
}

func structurallyValid(t domain.Transaction) bool {
	return t.TxnID != "" &&
		t.SrcAccountID != "" &&
		t.DstAccountID != "" &&
		t.Amount != nil &&
		t.Currency != "" &&
		t.Timestamp != ""
}

func keyOf(t domain.Transaction) txnKey {
	key := txnKey{
		txnID:        t.TxnID,
		srcAccountID: t.SrcAccountID,
		dstAccountID: t.DstAccountID,
		amountNull:   t.Amount == nil,
		currency:     t.Currency,
		timestamp:    t.Timestamp,
		channel:      t.Channel,
		status:       t.Status,
	}
	if t.Amount != nil {
		key.amount = *t.Amount
	}
	return key
}
