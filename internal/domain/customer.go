package domain

// RawCustomer mirrors one row of a raw customer extract, untouched.
type RawCustomer struct {
	CustomerID string
	Name       string
	DOB        string
	KYCStatus  string
	Email      string
	Phone      string
	Address    string
	Country    string
}

// Customer is a cleaned customer row. Empty strings mark absent values.
type Customer struct {
	CustomerID string
	Name       string
	DOB        string // YYYY-MM-DD, empty when the raw value was unparsable
	KYCStatus  string
	Email      string
	Phone      string // E.164, empty when the raw value had no usable digits
	Address    string
	Country    string
}
