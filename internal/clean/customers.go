package clean

import (
	"sort"

	"github.com/dineshkm/fingraph/internal/domain"
)

// Customers normalizes raw customer rows and collapses duplicate customer_ids.
// Rows are sorted by customer_id before grouping so that "first" is
// deterministic; within a group the first non-null value wins per field, not
// the most recent one. Rows without a customer_id are dropped.
func Customers(raws []domain.RawCustomer) []domain.Customer {
	normalized := make([]domain.Customer, 0, len(raws))
	for _, raw := range raws {
		id := normalizeID(raw.CustomerID)
		if id == "" {
			continue
		}
		normalized = append(normalized, domain.Customer{
			CustomerID: id,
			Name:       titleText(raw.Name),
			DOB:        normalizeDate(raw.DOB),
			KYCStatus:  normalizeStatus(raw.KYCStatus),
			Email:      normalizeEmail(raw.Email),
			Phone:      normalizePhone(raw.Phone),
			Address:    tidyText(raw.Address),
			Country:    normalizeCountry(raw.Country),
		})
	}

	// Stable sort keeps raw row order as the tie-break within each group.
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].CustomerID < normalized[j].CustomerID
	})

	deduped := make([]domain.Customer, 0, len(normalized))
	for _, row := range normalized {
		if n := len(deduped); n > 0 && deduped[n-1].CustomerID == row.CustomerID {
			coalesceCustomer(&deduped[n-1], row)
			continue
		}
		deduped = append(deduped, row)
	}
	return deduped
}

// CustomerKeys returns the set of customer_ids present in the cleaned batch.
func CustomerKeys(customers []domain.Customer) map[string]struct{} {
	keys := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		keys[c.CustomerID] = struct{}{}
	}
	return keys
}

func coalesceCustomer(dst *domain.Customer, src domain.Customer) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.DOB == "" {
		dst.DOB = src.DOB
	}
	if dst.KYCStatus == "" {
		dst.KYCStatus = src.KYCStatus
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.Address == "" {
		dst.Address = src.Address
	}
	if dst.Country == "" {
		dst.Country = src.Country
	}
}
