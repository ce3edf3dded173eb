package clean

import (
	"github.com/dineshkm/fingraph/internal/domain"
)

// Accounts normalizes raw account rows, removes exact duplicates, and drops
// rows whose customer_id does not resolve against the cleaned customer set.
// Customers must be fully cleaned before this runs; the referential drop is
// silent and shows up only in row counts.
func Accounts(raws []domain.RawAccount, customerKeys map[string]struct{}) []domain.Account {
	seen := make(map[domain.Account]struct{}, len(raws))
	cleaned := make([]domain.Account, 0, len(raws))
	for _, raw := range raws {
		row := domain.Account{
			AccountID:  normalizeID(raw.AccountID),
			CustomerID: normalizeID(raw.CustomerID),
			Type:       titleText(raw.Type),
			Currency:   normalizeCurrency(raw.Currency),
			OpenedAt:   normalizeTimestamp(raw.OpenedAt),
			Status:     normalizeStatus(raw.Status),
			BranchID:   normalizeID(raw.BranchID),
		}
		if row.AccountID == "" {
			continue
		}
		if _, ok := customerKeys[row.CustomerID]; !ok {
			continue
		}
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		cleaned = append(cleaned, row)
	}
	return cleaned
}

// AccountKeys returns the set of account_ids present in the cleaned batch.
func AccountKeys(accounts []domain.Account) map[string]struct{} {
	keys := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		keys[a.AccountID] = struct{}{}
	}
	return keys
}
