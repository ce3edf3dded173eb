// Package loader merges cleaned datasets into the graph as idempotent MERGE
// batches. Steps run strictly in dependency order because relationship merges
// require both endpoints to exist; a failed step aborts the cycle without
// retry. Earlier steps are not rolled back — a cycle is not transactional
// across steps, so a mid-cycle failure leaves the committed prefix in place.
package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dineshkm/fingraph/internal/domain"
	"github.com/dineshkm/fingraph/internal/graph"
	"github.com/dineshkm/fingraph/internal/schema"
)

// Dataset is the cleaned batch a single load cycle merges into the graph.
type Dataset struct {
	Customers    []domain.Customer
	Accounts     []domain.Account
	Transactions []domain.Transaction
}

// Step is one ordered merge batch: a cypher statement applied over the rows
// produced from the dataset, submitted as {"rows": [...]}.
type Step struct {
	Name   string
	Cypher string
	Rows   func(ds Dataset) []map[string]any
}

// Loader applies a cleaned dataset to the graph store.
type Loader struct {
	client graph.Client
	logger *slog.Logger
}

// New constructs a Loader over the supplied graph client.
func New(client graph.Client, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, logger: logger}
}

// Steps returns the merge steps in mandatory execution order. Node batches
// precede every edge batch that references them.
func Steps() []Step {
	return []Step{
		{Name: "customers", Cypher: mergeCustomersCypher, Rows: customerRows},
		{Name: "countries", Cypher: mergeCountriesCypher, Rows: countryRows},
		{Name: "accounts", Cypher: mergeAccountsCypher, Rows: accountRows},
		{Name: "transactions", Cypher: mergeTransactionsCypher, Rows: transactionRows},
		{Name: "transfers", Cypher: mergeTransfersCypher, Rows: transactionRows},
		{Name: "channels", Cypher: mergeChannelsCypher, Rows: channelRows},
		{Name: "branches", Cypher: mergeBranchesCypher, Rows: branchRows},
		{Name: "currencies", Cypher: mergeCurrenciesCypher, Rows: accountRows},
		{Name: "denominations", Cypher: mergeDenominationsCypher, Rows: transactionRows},
	}
}

// Load applies uniqueness constraints and then every merge step in order.
// Re-running Load with the same dataset leaves node and edge counts and all
// tracked attributes unchanged.
func (l *Loader) Load(ctx context.Context, ds Dataset) error {
	if err := schema.EnsureConstraints(ctx, l.client); err != nil {
		return err
	}

	for _, step := range Steps() {
		rows := step.Rows(ds)
		params := map[string]any{"rows": rows}
		if _, err := l.client.ExecuteWrite(ctx, step.Cypher, params); err != nil {
			return fmt.Errorf("merge step %s: %w", step.Name, err)
		}
		l.logger.Info("merge step complete", "step", step.Name, "rows", len(rows))
	}
	return nil
}

func customerRows(ds Dataset) []map[string]any {
	rows := make([]map[string]any, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		rows = append(rows, map[string]any{
			"customer_id": c.CustomerID,
			"name":        c.Name,
			"dob":         c.DOB,
			"kyc_status":  c.KYCStatus,
			"email":       c.Email,
			"phone":       c.Phone,
			"address":     c.Address,
		})
	}
	return rows
}

// countryRows keeps only customers with a resolved country; merging a Country
// node keyed by the empty string would pollute the dimension.
func countryRows(ds Dataset) []map[string]any {
	var rows []map[string]any
	for _, c := range ds.Customers {
		if c.Country == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"customer_id": c.CustomerID,
			"country":     c.Country,
		})
	}
	return rows
}

func accountRows(ds Dataset) []map[string]any {
	rows := make([]map[string]any, 0, len(ds.Accounts))
	for _, a := range ds.Accounts {
		rows = append(rows, map[string]any{
			"account_id":  a.AccountID,
			"customer_id": a.CustomerID,
			"type":        a.Type,
			"currency":    a.Currency,
			"opened_at":   a.OpenedAt,
			"status":      a.Status,
		})
	}
	return rows
}

func branchRows(ds Dataset) []map[string]any {
	var rows []map[string]any
	for _, a := range ds.Accounts {
		if a.BranchID == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"account_id": a.AccountID,
			"branch_id":  a.BranchID,
		})
	}
	return rows
}

func transactionRows(ds Dataset) []map[string]any {
	rows := make([]map[string]any, 0, len(ds.Transactions))
	for _, t := range ds.Transactions {
		var amount float64
		if t.Amount != nil {
			amount = *t.Amount
		}
		rows = append(rows, map[string]any{
			"txn_id":         t.TxnID,
			"src_account_id": t.SrcAccountID,
			"dst_account_id": t.DstAccountID,
			"amount":         amount,
			"currency":       t.Currency,
			"ts":             t.Timestamp,
			"channel":        t.Channel,
			"status":         t.Status,
		})
	}
	return rows
}

func channelRows(ds Dataset) []map[string]any {
	var rows []map[string]any
	for _, t := range ds.Transactions {
		if t.Channel == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"txn_id":  t.TxnID,
			"channel": t.Channel,
		})
	}
	return rows
}

const mergeCustomersCypher = `
UNWIND $rows AS row
MERGE (c:Customer {customer_id: row.customer_id})
SET c.name = row.name,
    c.dob = row.dob,
    c.kyc_status = row.kyc_status,
    c.email = row.email,
    c.phone = row.phone,
    c.address = row.address
`

const mergeCountriesCypher = `
UNWIND $rows AS row
MERGE (co:Country {country_name: row.country})
WITH co, row
MATCH (c:Customer {customer_id: row.customer_id})
MERGE (c)-[:IN_COUNTRY]->(co)
`

const mergeAccountsCypher = `
UNWIND $rows AS row
MERGE (a:Account {account_id: row.account_id})
SET a.type = row.type,
    a.currency = row.currency,
    a.status = row.status
WITH a, row
MATCH (c:Customer {customer_id: row.customer_id})
MERGE (c)-[o:OWNS]->(a)
SET o.created_at = row.opened_at
`

const mergeTransactionsCypher = `
UNWIND $rows AS row
MATCH (src:Account {account_id: row.src_account_id})
MATCH (dst:Account {account_id: row.dst_account_id})
MERGE (t:Transaction {txn_id: row.txn_id})
SET t.amount = row.amount,
    t.currency = row.currency,
    t.timestamp = datetime(row.ts),
    t.channel = row.channel,
    t.status = row.status
MERGE (src)-[:SENT]->(t)
MERGE (t)-[:TO]->(dst)
`

const mergeTransfersCypher = `
UNWIND $rows AS row
MATCH (src:Account {account_id: row.src_account_id})
MATCH (dst:Account {account_id: row.dst_account_id})
MERGE (src)-[tr:TRANSFERS_TO {txn_id: row.txn_id}]->(dst)
SET tr.amount = row.amount,
    tr.currency = row.currency,
    tr.status = row.status
`

const mergeChannelsCypher = `
UNWIND $rows AS row
MERGE (ch:Channel {channel_type: row.channel})
WITH ch, row
MATCH (t:Transaction {txn_id: row.txn_id})
MERGE (t)-[:VIA_CHANNEL]->(ch)
`

const mergeBranchesCypher = `
UNWIND $rows AS row
MERGE (b:Branch {branch_id: row.branch_id})
WITH b, row
MATCH (a:Account {account_id: row.account_id})
MERGE (a)-[:OPENED_AT]->(b)
`

const mergeCurrenciesCypher = `
UNWIND $rows AS row
MERGE (cu:Currency {currency_type: row.currency})
WITH cu, row
MATCH (a:Account {account_id: row.account_id})
MERGE (a)-[:USES_CURRENCY]->(cu)
`

const mergeDenominationsCypher = `
UNWIND $rows AS row
MATCH (t:Transaction {txn_id: row.txn_id})
MATCH (cu:Currency {currency_type: row.currency})
MERGE (t)-[:DENOMINATED_IN]->(cu)
`
