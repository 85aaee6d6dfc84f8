// Package memory is an in-memory transaction source, used as the default
// backend and as a fixture in tests.
package memory

import (
	"context"
	"sync"

	"cardwatch/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items core.Table
}

func New(items core.Table) *Store {
	return &Store{items: items.Clone()}
}

// Append stores the transaction after validating it.
func (s *Store) Append(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return nil
}

// ListTransactions returns the stored transactions with a payment date in
// [from, to], preserving insertion order.
func (s *Store) ListTransactions(_ context.Context, from, to core.Date) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(core.Table, 0, len(s.items))
	for _, tx := range s.items {
		if tx.PaymentDate.In(from, to) {
			out = append(out, tx)
		}
	}
	return out, nil
}
