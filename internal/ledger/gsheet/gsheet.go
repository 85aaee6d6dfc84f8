// Package gsheet reads the card ledger from a Google Sheets spreadsheet.
// The first row of the sheet is a header; columns are matched by name, so
// the sheet layout can evolve without code changes.
package gsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"cardwatch/internal/core"
	"cardwatch/internal/log"
)

type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// Config holds the spreadsheet coordinates. Credentials come from
// CredentialsJSON, CredentialsFile or application default credentials, in
// that order.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Source, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Transactions"
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	svc, err := newService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Source{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentLedger),
	}, nil
}

func newService(ctx context.Context, cfg Config) (*sheets.Service, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return sheets.NewService(ctx,
			goption.WithCredentialsJSON([]byte(cfg.CredentialsJSON)),
			goption.WithScopes(sheets.SpreadsheetsReadonlyScope))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return sheets.NewService(ctx,
			goption.WithCredentialsJSON(data),
			goption.WithScopes(sheets.SpreadsheetsReadonlyScope))
	default:
		return sheets.NewService(ctx,
			goption.WithScopes(sheets.SpreadsheetsReadonlyScope))
	}
}

// ListTransactions fetches the sheet and returns the rows whose payment
// date falls in [from, to]. Fetch and header problems recover to an empty
// table with a logged diagnostic, matching the other file-shaped sources.
func (s *Source) ListTransactions(ctx context.Context, from, to core.Date) (core.Table, error) {
	rng := s.sheetName + "!A1:Z"
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		s.logger.ErrorContext(ctx, "sheet fetch failed",
			"spreadsheet", s.spreadsheetID, log.FieldError, err)
		return core.Table{}, nil
	}

	table, err := parseRows(resp.Values, from, to)
	if err != nil {
		s.logger.ErrorContext(ctx, "sheet layout unusable",
			"spreadsheet", s.spreadsheetID, log.FieldError, err)
		return core.Table{}, nil
	}
	return table, nil
}
