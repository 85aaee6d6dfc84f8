package ledger

import (
	"context"
	"fmt"

	"cardwatch/internal/core"
	"cardwatch/internal/ledger/csvfile"
	"cardwatch/internal/ledger/gsheet"
	"cardwatch/internal/ledger/memory"
	"cardwatch/internal/ledger/postgres"
	"cardwatch/internal/ledger/sqlite"
	"cardwatch/internal/log"
)

// Backend selects a transaction source implementation.
type Backend string

const (
	MemoryBackend   Backend = "memory"
	CSVBackend      Backend = "csv"
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
	SheetsBackend   Backend = "sheets"
)

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case MemoryBackend, CSVBackend, SQLiteBackend, PostgresBackend, SheetsBackend:
		return true
	}
	return false
}

// Config holds backend selection plus the per-backend coordinates.
type Config struct {
	Backend Backend

	// csv
	CSVPath string

	// sqlite
	SQLiteDBPath string

	// postgres
	PostgresDSN string

	// sheets
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// CleanupFunc releases backend resources. May be nil.
type CleanupFunc func() error

// New builds the configured transaction source. The returned cleanup is nil
// for sources that hold no resources.
func New(ctx context.Context, cfg Config, logger *log.Logger) (TransactionReader, CleanupFunc, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentLedger)

	switch cfg.Backend {
	case CSVBackend:
		if cfg.CSVPath == "" {
			return nil, nil, fmt.Errorf("csv backend requires a ledger file path")
		}
		logger.Info("using csv ledger", log.FieldPath, cfg.CSVPath)
		return csvfile.New(cfg.CSVPath, logger), nil, nil

	case SQLiteBackend:
		store, err := sqlite.NewStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite ledger: %w", err)
		}
		logger.Info("using sqlite ledger", log.FieldPath, cfg.SQLiteDBPath)
		return store, store.Close, nil

	case PostgresBackend:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres ledger: %w", err)
		}
		logger.Info("using postgres ledger")
		return store, store.Close, nil

	case SheetsBackend:
		src, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsJSON: cfg.CredentialsJSON,
			CredentialsFile: cfg.CredentialsFile,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("sheets ledger: %w", err)
		}
		logger.Info("using sheets ledger", "spreadsheet", cfg.SpreadsheetID)
		return src, nil, nil

	case MemoryBackend, "":
		logger.Info("using in-memory ledger")
		return memory.New(core.Table{}), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Backend)
	}
}
