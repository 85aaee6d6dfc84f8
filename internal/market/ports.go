// Package market provides the exchange-rate and stock-price collaborators.
// Lookups never fail the batch: a symbol or currency that cannot be resolved
// yields a nil value in its slot and the rest proceed.
package market

import (
	"context"
	"fmt"
	"math"

	"cardwatch/internal/core"
)

type (
	// CurrencyRate is the domestic price of one unit of a foreign currency.
	// A nil Rate marks a failed or missing lookup.
	CurrencyRate struct {
		Currency string   `json:"currency"`
		Rate     *float64 `json:"rate"`
	}

	// StockPrice is the latest quoted price for a ticker. A nil Price marks
	// a failed lookup.
	StockPrice struct {
		Stock string   `json:"stock"`
		Price *float64 `json:"price"`
	}

	// RateSource resolves currency codes to rates. Implementations return
	// exactly one entry per requested code, in input order.
	RateSource interface {
		Rates(ctx context.Context, codes []string) []CurrencyRate
	}

	// PriceSource resolves ticker symbols to prices. Implementations return
	// exactly one entry per requested symbol, in input order.
	PriceSource interface {
		Prices(ctx context.Context, symbols []string) []StockPrice
	}
)

// Float returns a pointer to v. Convenience for building fixed lookup
// results in tests and stubs.
func Float(v float64) *float64 {
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func lookupError(op, subject string, err error) error {
	return fmt.Errorf("%s %s: %v: %w", op, subject, err, core.ErrLookupFailed)
}
