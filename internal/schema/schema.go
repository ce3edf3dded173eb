// Package schema declares the node types of the financial graph together with
// the property that must be unique per label, and emits the idempotent
// constraint statements the loader applies before any merge batch.
package schema

import (
	"context"
	"fmt"

	"github.com/dineshkm/fingraph/internal/graph"
)

// NodeType describes a graph label and its unique key property.
type NodeType struct {
	Label   string
	KeyProp string
}

// Nodes lists every label the loader merges. The loader's merge statements
// key nodes by exactly these properties, so constraint creation and merging
// can never disagree on the key.
var Nodes = []NodeType{
	{Label: "Customer", KeyProp: "customer_id"},
	{Label: "Account", KeyProp: "account_id"},
	{Label: "Transaction", KeyProp: "txn_id"},
	{Label: "Branch", KeyProp: "branch_id"},
	{Label: "Country", KeyProp: "country_name"},
	{Label: "Channel", KeyProp: "channel_type"},
	{Label: "Currency", KeyProp: "currency_type"},
}

// ConstraintCypher returns the create-if-absent uniqueness constraint for the
// node type. Safe to run repeatedly.
func (n NodeType) ConstraintCypher() string {
	return fmt.Sprintf(`CREATE CONSTRAINT %s_unique IF NOT EXISTS
FOR (n:%s) REQUIRE n.%s IS UNIQUE`, n.KeyProp, n.Label, n.KeyProp)
}

// EnsureConstraints applies every uniqueness constraint. It must run once per
// load cycle before the first merge batch is submitted.
func EnsureConstraints(ctx context.Context, client graph.Client) error {
	for _, node := range Nodes {
		if _, err := client.ExecuteWrite(ctx, node.ConstraintCypher(), nil); err != nil {
			return fmt.Errorf("create constraint for %s: %w", node.Label, err)
		}
	}
	return nil
}
