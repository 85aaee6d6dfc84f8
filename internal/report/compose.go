package report

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"cardwatch/internal/core"
	"cardwatch/internal/log"
	"cardwatch/internal/market"
	"cardwatch/internal/settings"
)

type (
	// CardSummary aggregates spend on a single card, identified by its last
	// four digits. TotalSpent and Cashback are absolute values in currency
	// units, already rounded to two decimals by the cent representation.
	CardSummary struct {
		LastDigits string  `json:"last_digits"`
		TotalSpent float64 `json:"total_spent"`
		Cashback   float64 `json:"cashback"`
	}

	// TopTransaction is one entry of the largest-spend list.
	TopTransaction struct {
		Date        string  `json:"date"` // DD.MM.YYYY
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
	}

	// Response is the dashboard payload. It always carries exactly these
	// five fields; empty inputs produce empty lists, never null.
	Response struct {
		Greeting        string                `json:"greeting"`
		Cards           []CardSummary         `json:"cards"`
		TopTransactions []TopTransaction      `json:"top_transactions"`
		CurrencyRates   []market.CurrencyRate `json:"currency_rates"`
		StockPrices     []market.StockPrice   `json:"stock_prices"`
	}
)

// topTransactionCount is how many of the largest transactions make the
// dashboard list.
const topTransactionCount = 5

// Composer assembles the dashboard response from an expense table and user
// settings. The rate and price collaborators, the clock and the logger are
// injected at construction.
type Composer struct {
	rates  market.RateSource
	prices market.PriceSource
	clock  Clock
	logger *log.Logger
}

func NewComposer(rates market.RateSource, prices market.PriceSource, clock Clock, logger *log.Logger) *Composer {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Composer{
		rates:  rates,
		prices: prices,
		clock:  clock,
		logger: logger.WithComponent(log.ComponentReport),
	}
}

// Compose builds the dashboard response. The expense table is expected to be
// pre-filtered to the reporting window by the caller. Lookup failures never
// fail the response; the affected entries carry nil values.
func (c *Composer) Compose(ctx context.Context, expenses core.Table, us settings.UserSettings) Response {
	resp := Response{
		Greeting:        greetingFor(c.clock().Hour()),
		Cards:           cardSummaries(expenses),
		TopTransactions: topTransactions(expenses),
		CurrencyRates:   []market.CurrencyRate{},
		StockPrices:     []market.StockPrice{},
	}

	// The two lookups are independent and each resolves its batch against
	// its own identity keys, so they can run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp.CurrencyRates = c.lookupRates(gctx, us.UserCurrencies)
		return nil
	})
	g.Go(func() error {
		resp.StockPrices = c.lookupPrices(gctx, us.UserStocks)
		return nil
	})
	_ = g.Wait()

	return resp
}

func (c *Composer) lookupRates(ctx context.Context, codes []string) []market.CurrencyRate {
	if len(codes) == 0 || c.rates == nil {
		return []market.CurrencyRate{}
	}
	rates := c.rates.Rates(ctx, codes)
	if rates == nil {
		rates = []market.CurrencyRate{}
	}
	return rates
}

func (c *Composer) lookupPrices(ctx context.Context, symbols []string) []market.StockPrice {
	if len(symbols) == 0 || c.prices == nil {
		return []market.StockPrice{}
	}
	prices := c.prices.Prices(ctx, symbols)
	if prices == nil {
		prices = []market.StockPrice{}
	}
	return prices
}

// greetingFor buckets the wall-clock hour into a salutation.
func greetingFor(hour int) string {
	switch {
	case hour < 6:
		return "Good night"
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// cardSummaries groups transactions by card number and sums each group.
// Cards are emitted in ascending card-number order so the grouping is
// deterministic. Totals and the 1% cashback are absolute values.
func cardSummaries(expenses core.Table) []CardSummary {
	totals := make(map[string]int64)
	for _, tx := range expenses {
		totals[tx.CardNumber] += tx.Amount.Cents
	}

	cards := make([]string, 0, len(totals))
	for card := range totals {
		cards = append(cards, card)
	}
	sort.Strings(cards)

	out := make([]CardSummary, 0, len(cards))
	for _, card := range cards {
		total := core.Money{Cents: totals[card]}.Abs()
		out = append(out, CardSummary{
			LastDigits: core.Transaction{CardNumber: card}.LastDigits(),
			TotalSpent: total.Units(),
			Cashback:   total.Percent(1).Units(),
		})
	}
	return out
}

// topTransactions picks the largest transactions by signed amount, ties
// broken by original table order.
func topTransactions(expenses core.Table) []TopTransaction {
	ranked := expenses.Clone()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cents > ranked[j].Amount.Cents
	})

	n := topTransactionCount
	if len(ranked) < n {
		n = len(ranked)
	}

	out := make([]TopTransaction, 0, n)
	for _, tx := range ranked[:n] {
		out = append(out, TopTransaction{
			Date:        tx.PaymentDate.Format("02.01.2006"),
			Amount:      tx.Amount.Units(),
			Category:    tx.Category,
			Description: tx.Description,
		})
	}
	return out
}
