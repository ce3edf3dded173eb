// Package generator synthesises raw financial extracts with realistic dirt:
// inconsistent casing, duplicate customer rows, currency noise, unparsable
// amounts and dangling foreign keys. Output exercises every recovery path of
// the cleaning stage.
package generator

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/dineshkm/fingraph/internal/domain"
)

// Dataset contains the generated raw rows per entity.
type Dataset struct {
	Customers    []domain.RawCustomer
	Accounts     []domain.RawAccount
	Transactions []domain.RawTransaction
}

// Generator produces synthetic raw extracts.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumCustomers <= 0 {
		cfg.NumCustomers = defaults.NumCustomers
	}
	if cfg.NumAccounts <= 0 {
		cfg.NumAccounts = defaults.NumAccounts
	}
	if cfg.NumTransactions <= 0 {
		cfg.NumTransactions = defaults.NumTransactions
	}
	if cfg.DuplicateChance <= 0 {
		cfg.DuplicateChance = defaults.DuplicateChance
	}
	if cfg.DirtyChance <= 0 {
		cfg.DirtyChance = defaults.DirtyChance
	}
	if cfg.DanglingChance <= 0 {
		cfg.DanglingChance = defaults.DanglingChance
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaults.Seed
	}
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

var (
	firstNames = []string{"james", "MARIA", "Wei", "priya", "AHMED", "sofia", "liam", "CHLOE"}
	lastNames  = []string{"smith", "GARCIA", "chen", "PATEL", "khan", "rossi", "MUELLER", "silva"}
	countries  = []string{"USA", "usa", "U.S.A.", "united states", "India", "germany", "Brazil", ""}
	kycValues  = []string{"VERIFIED", "verified", "Pending", "REJECTED", "none", ""}
	acctTypes  = []string{"checking", "SAVINGS", "Savings", "current"}
	currencies = []string{"USD", "usd", "$ USD", "eur", "EUR", "XYZ", ""}
	statuses   = []string{"ACTIVE", "active", "Closed", "FROZEN", "none", ""}
	channels   = []string{"ONLINE", "atm", "Branch", "MOBILE", ""}
	txStatuses = []string{"SETTLED", "settled", "Pending", "FAILED", "none"}
	timestamps = []string{
		"2024-03-15T10:30:00", "2024-03-15 10:30:00", "03/15/2024", "2024/03/15",
		"15-Mar-2024", "not-a-date", "",
	}
	amounts = []string{"1250.75", "$1,250.75", "USD 500", "$ 99.99", "1,000,000", "abc", ""}
	dobs    = []string{"1985-06-12", "06/12/1985", "Jun 12, 1985", "1985/06/12", "unknown", ""}
)

// Generate synthesises the dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset

	for i := 0; i < g.cfg.NumCustomers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		id := fmt.Sprintf("CUST-%04d", i+1)
		row := domain.RawCustomer{
			CustomerID: g.maybeDirtyID(id),
			Name:       g.randomName(),
			DOB:        g.pick(dobs),
			KYCStatus:  g.pick(kycValues),
			Email:      g.randomEmail(i),
			Phone:      g.randomPhone(),
			Address:    g.randomAddress(),
			Country:    g.pick(countries),
		}
		ds.Customers = append(ds.Customers, row)

		// Duplicate the customer with some fields blanked so first-non-null
		// coalescing has work to do.
		if g.rand.Float64() < g.cfg.DuplicateChance {
			dup := row
			if g.rand.Float64() < 0.5 {
				dup.Email = ""
			} else {
				dup.Phone = ""
			}
			dup.Address = ""
			ds.Customers = append(ds.Customers, dup)
		}
	}

	for i := 0; i < g.cfg.NumAccounts; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		ds.Accounts = append(ds.Accounts, domain.RawAccount{
			AccountID:  g.maybeDirtyID(fmt.Sprintf("ACC-%05d", i+1)),
			CustomerID: g.customerRef(),
			Type:       g.pick(acctTypes),
			Currency:   g.pick(currencies),
			OpenedAt:   g.pick(timestamps),
			Status:     g.pick(statuses),
			BranchID:   fmt.Sprintf("BR-%02d", 1+g.rand.Intn(12)),
		})
	}

	for i := 0; i < g.cfg.NumTransactions; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		ds.Transactions = append(ds.Transactions, domain.RawTransaction{
			TxnID:        g.maybeDirtyID(fmt.Sprintf("TXN-%06d", i+1)),
			SrcAccountID: g.accountRef(),
			DstAccountID: g.accountRef(),
			Amount:       g.pick(amounts),
			Currency:     g.pick(currencies),
			Timestamp:    g.pick(timestamps),
			Channel:      g.pick(channels),
			Status:       g.pick(txStatuses),
		})
	}

	return ds, nil
}

func (g *Generator) pick(values []string) string {
	return values[g.rand.Intn(len(values))]
}

// maybeDirtyID lowercases and pads an identifier so normalization has
// something to repair; the cleaned value is unchanged either way.
func (g *Generator) maybeDirtyID(id string) string {
	if g.rand.Float64() >= g.cfg.DirtyChance {
		return id
	}
	if g.rand.Float64() < 0.5 {
		return "  " + id + " "
	}
	return fmt.Sprintf(" %s ", lowerASCII(id))
}

func (g *Generator) customerRef() string {
	if g.rand.Float64() < g.cfg.DanglingChance {
		return fmt.Sprintf("CUST-9%04d", g.rand.Intn(1000))
	}
	return fmt.Sprintf("CUST-%04d", 1+g.rand.Intn(g.cfg.NumCustomers))
}

func (g *Generator) accountRef() string {
	if g.rand.Float64() < g.cfg.DanglingChance {
		return fmt.Sprintf("ACC-9%05d", g.rand.Intn(1000))
	}
	return fmt.Sprintf("ACC-%05d", 1+g.rand.Intn(g.cfg.NumAccounts))
}

func (g *Generator) randomName() string {
	name := g.pick(firstNames) + " " + g.pick(lastNames)
	if g.rand.Float64() < g.cfg.DirtyChance {
		name = "  " + g.pick(firstNames) + "   " + g.pick(lastNames) + " "
	}
	return name
}

func (g *Generator) randomEmail(i int) string {
	if g.rand.Float64() < 0.1 {
		return ""
	}
	return fmt.Sprintf("User%d@Example.COM ", i+1)
}

func (g *Generator) randomPhone() string {
	switch g.rand.Intn(5) {
	case 0:
		return fmt.Sprintf("(%03d) %03d-%04d", 200+g.rand.Intn(700), g.rand.Intn(1000), g.rand.Intn(10000))
	case 1:
		return fmt.Sprintf("1%010d", g.rand.Int63n(1e10))
	case 2:
		return fmt.Sprintf("%03d-%03d-%04d", 200+g.rand.Intn(700), g.rand.Intn(1000), g.rand.Intn(10000))
	case 3:
		return fmt.Sprintf("%d", g.rand.Intn(10000)) // too short, normalizes to null
	default:
		return ""
	}
}

func (g *Generator) randomAddress() string {
	if g.rand.Float64() < 0.15 {
		return ""
	}
	return fmt.Sprintf("%d   Main   St, Unit %d", 1+g.rand.Intn(999), 1+g.rand.Intn(50))
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
