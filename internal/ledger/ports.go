// Package ledger defines the transaction source port and the backend
// factory. Concrete sources live in subpackages: csvfile, sqlite, postgres,
// gsheet and memory.
package ledger

import (
	"context"

	"cardwatch/internal/core"
)

type (
	// TransactionReader lists the transactions whose payment date falls in
	// [from, to] inclusive. A source with no rows in the window returns an
	// empty table, not an error.
	TransactionReader interface {
		ListTransactions(ctx context.Context, from, to core.Date) (core.Table, error)
	}

	// TransactionWriter appends a transaction to a writable source.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) error
	}
)
