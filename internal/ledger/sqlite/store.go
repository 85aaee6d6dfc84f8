// Package sqlite stores the card ledger in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"cardwatch/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// migrateUp applies any pending schema migrations from the embedded set,
// on a dedicated connection so migration locks never reach the store's pool.
// An already-current schema is not an error.
func migrateUp(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("prepare sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("build migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Append inserts a transaction into the ledger.
func (s *Store) Append(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(operation_date, payment_date, amount_cents, category, card_number, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.OperationDate.Format("2006-01-02"),
		tx.PaymentDate.Format("2006-01-02"),
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
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation_date, payment_date, amount_cents, category, card_number, description
		FROM transactions
		WHERE payment_date >= ? AND payment_date <= ?
		ORDER BY id`,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := core.Table{}
	for rows.Next() {
		var (
			opDate, payDate string
			tx              core.Transaction
		)
		if err := rows.Scan(&opDate, &payDate, &tx.Amount.Cents,
			&tx.Category, &tx.CardNumber, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.OperationDate, err = core.ParseDate(opDate); err != nil {
			return nil, fmt.Errorf("stored operation date: %w", err)
		}
		if tx.PaymentDate, err = core.ParseDate(payDate); err != nil {
			return nil, fmt.Errorf("stored payment date: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
