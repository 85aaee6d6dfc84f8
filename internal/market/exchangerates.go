package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cardwatch/internal/log"
)

const defaultExchangeRatesURL = "https://api.apilayer.com/exchangerates_data/latest"

// ExchangeRatesClient fetches currency quotes from the apilayer
// exchangerates endpoint. One request resolves the whole batch: the provider
// quotes every currency against the domestic base at once.
type ExchangeRatesClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	base       string
	logger     *log.Logger
}

// ExchangeRatesConfig configures an ExchangeRatesClient. Base is the
// domestic currency the quotes are taken against; empty defaults to RUB.
type ExchangeRatesConfig struct {
	APIKey  string
	BaseURL string
	Base    string
	Timeout time.Duration
}

func NewExchangeRates(cfg ExchangeRatesConfig, logger *log.Logger) *ExchangeRatesClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultExchangeRatesURL
	}
	base := cfg.Base
	if base == "" {
		base = "RUB"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExchangeRatesClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		base:       base,
		logger:     logger.WithComponent(log.ComponentMarket),
	}
}

var _ RateSource = (*ExchangeRatesClient)(nil)

// Rates resolves each requested code against the domestic currency. The
// provider quotes "units of foreign currency per one domestic unit", so the
// published rate is the inverse, rounded to two decimals. A failed request
// or a code missing from the quote map yields a nil rate in that slot;
// the output always has one entry per requested code, in input order.
func (c *ExchangeRatesClient) Rates(ctx context.Context, codes []string) []CurrencyRate {
	out := make([]CurrencyRate, len(codes))
	for i, code := range codes {
		out[i] = CurrencyRate{Currency: code}
	}

	quotes, err := c.fetchQuotes(ctx)
	if err != nil {
		c.logger.Error("currency rate lookup failed", log.FieldError, err)
		return out
	}

	for i, code := range codes {
		quoted, ok := quotes[code]
		if !ok || quoted == 0 {
			c.logger.Warn("no quote for currency", log.FieldCurrency, code)
			continue
		}
		out[i].Rate = Float(round2(1 / quoted))
	}

	return out
}

func (c *ExchangeRatesClient) fetchQuotes(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?base="+c.base, nil)
	if err != nil {
		return nil, lookupError("build request", c.base, err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, lookupError("request", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, lookupError("request", c.base, fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, lookupError("decode payload", c.base, err)
	}

	return payload.Rates, nil
}
