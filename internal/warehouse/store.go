// Package warehouse mirrors the cleaned dataset into a relational store.
// Each entity lands in a keyed table via insert-or-update, so repeated loads
// of the same cycle are as idempotent as the graph side.
package warehouse

import (
	"context"

	"github.com/dineshkm/fingraph/internal/domain"
)

// Store is the relational collaborator contract: apply a batch of upserts
// against a keyed table per entity. Transport, authentication and the merge
// statement dialect are the implementation's concern.
type Store interface {
	EnsureTables(ctx context.Context) error
	UpsertCustomers(ctx context.Context, customers []domain.Customer) error
	UpsertAccounts(ctx context.Context, accounts []domain.Account) error
	UpsertTransactions(ctx context.Context, txns []domain.Transaction) error
	Close()
}
