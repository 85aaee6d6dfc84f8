// Package postgres stores the card ledger in PostgreSQL via a pgx pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cardwatch/internal/core"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: pool}, nil
}

// Append inserts a transaction into the ledger.
func (s *Store) Append(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO transactions
			(operation_date, payment_date, amount_cents, category, card_number, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.OperationDate.Time,
		tx.PaymentDate.Time,
		tx.Amount.Cents,
		tx.Category,
		tx.CardNumber,
		tx.Description,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the rows with a payment date in [from, to],
// ordered by insertion so downstream tie-breaks stay stable.
func (s *Store) ListTransactions(ctx context.Context, from, to core.Date) (core.Table, error) {
	rows, err := s.db.Query(ctx, `
		SELECT operation_date, payment_date, amount_cents, category, card_number, description
		FROM transactions
		WHERE payment_date >= $1 AND payment_date <= $2
		ORDER BY id`,
		from.Time, to.Time,
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := core.Table{}
	for rows.Next() {
		var (
			opDate, payDate time.Time
			tx              core.Transaction
		)
		if err := rows.Scan(&opDate, &payDate, &tx.Amount.Cents,
			&tx.Category, &tx.CardNumber, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.OperationDate = core.Date{Time: opDate}
		tx.PaymentDate = core.Date{Time: payDate}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}
