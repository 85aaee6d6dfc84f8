// Package csvfile reads the card ledger from a CSV export. The header row
// maps columns by name, so column order in the export does not matter.
package csvfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"cardwatch/internal/core"
	"cardwatch/internal/log"
)

// Expected header names, lower-cased for matching.
const (
	colOperationDate = "operation_date"
	colPaymentDate   = "payment_date"
	colAmount        = "amount"
	colCardNumber    = "card_number"
	colCategory      = "category"
	colDescription   = "description"
)

type Source struct {
	path   string
	logger *log.Logger
}

func New(path string, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Source{
		path:   path,
		logger: logger.WithComponent(log.ComponentLedger),
	}
}

// ListTransactions loads the file and returns the rows whose payment date
// falls in [from, to]. A missing file, an unreadable document or an export
// without the payment-date column all recover to an empty table with a
// logged diagnostic; only the diagnostics differ.
func (s *Source) ListTransactions(ctx context.Context, from, to core.Date) (core.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		s.logger.ErrorContext(ctx, "ledger file unavailable", log.FieldPath, s.path, log.FieldError, err)
		return core.Table{}, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		s.logger.ErrorContext(ctx, "ledger file has no header row", log.FieldPath, s.path, log.FieldError, err)
		return core.Table{}, nil
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols[colPaymentDate]; !ok {
		s.logger.ErrorContext(ctx, "ledger file is missing the payment date column",
			log.FieldPath, s.path)
		return core.Table{}, nil
	}

	var out core.Table
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable ledger row",
				log.FieldPath, s.path, "line", line, log.FieldError, err)
			continue
		}

		tx, err := parseRow(record, cols)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed ledger row",
				log.FieldPath, s.path, "line", line, log.FieldError, err)
			continue
		}
		if tx.PaymentDate.In(from, to) {
			out = append(out, tx)
		}
	}

	if len(out) == 0 {
		s.logger.InfoContext(ctx, "no ledger rows in the requested window",
			log.FieldPath, s.path,
			log.FieldFrom, from.Format("2006-01-02"),
			log.FieldTo, to.Format("2006-01-02"))
		return core.Table{}, nil
	}
	return out, nil
}

func parseRow(record []string, cols map[string]int) (core.Transaction, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	paymentDate, err := core.ParseDate(get(colPaymentDate))
	if err != nil {
		return core.Transaction{}, err
	}

	operationDate := paymentDate
	if raw := get(colOperationDate); raw != "" {
		operationDate, err = core.ParseDate(raw)
		if err != nil {
			return core.Transaction{}, err
		}
	}

	cents, err := core.ParseAmountToCents(get(colAmount))
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		OperationDate: operationDate,
		PaymentDate:   paymentDate,
		Amount:        core.Money{Cents: cents},
		Category:      get(colCategory),
		CardNumber:    get(colCardNumber),
		Description:   get(colDescription),
	}, nil
}
