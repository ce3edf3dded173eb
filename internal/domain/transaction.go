package domain

// RawTransaction mirrors one row of a raw transaction extract, untouched.
type RawTransaction struct {
	TxnID        string
	SrcAccountID string
	DstAccountID string
	Amount       string
	Currency     string
	Timestamp    string
	Channel      string
	Status       string
}

// Transaction is a cleaned transaction row. A nil Amount marks an unparsable
// raw amount; such rows are dropped by the integrity filter before loading.
type Transaction struct {
	TxnID        string
	SrcAccountID string
	DstAccountID string
	Amount       *float64
	Currency     string
	Timestamp    string // ISO-8601; epoch sentinel when the raw value was unparsable
	Channel      string
	Status       string
}
