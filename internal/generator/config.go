package generator

// Config drives the synthetic raw data generator.
type Config struct {
	NumCustomers    int
	NumAccounts     int
	NumTransactions int
	DuplicateChance float64
	DirtyChance     float64
	DanglingChance  float64
	Seed            int64
}

// DefaultConfig returns baseline settings producing a small but thoroughly
// dirty dataset.
func DefaultConfig() Config {
	return Config{
		NumCustomers:    100,
		NumAccounts:     250,
		NumTransactions: 1000,
		DuplicateChance: 0.15,
		DirtyChance:     0.35,
		DanglingChance:  0.05,
		Seed:            42,
	}
}
