package domain

// RawAccount mirrors one row of a raw account extract, untouched.
type RawAccount struct {
	AccountID  string
	CustomerID string
	Type       string
	Currency   string
	OpenedAt   string
	Status     string
	BranchID   string
}

// Account is a cleaned account row.
type Account struct {
	AccountID  string
	CustomerID string
	Type       string
	Currency   string
	OpenedAt   string // ISO-8601; epoch sentinel when the raw value was unparsable
	Status     string
	BranchID   string
}
