package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"cardwatch/internal/log"
)

const defaultAlphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches intraday stock quotes from Alpha Vantage.
// The API key and per-call timeout are injected at construction.
type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *log.Logger
}

// AlphaVantageConfig configures an AlphaVantageClient. BaseURL is
// overridable for tests; empty means the public endpoint.
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func NewAlphaVantage(cfg AlphaVantageConfig, logger *log.Logger) *AlphaVantageClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAlphaVantageURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AlphaVantageClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		logger:     logger.WithComponent(log.ComponentMarket),
	}
}

var _ PriceSource = (*AlphaVantageClient)(nil)

// Prices resolves each symbol independently and concurrently. Results land
// in the slot of the symbol that requested them, so completion order does
// not matter. Any per-symbol failure, including a timeout, leaves a nil
// price in that slot; it never aborts the other lookups.
func (c *AlphaVantageClient) Prices(ctx context.Context, symbols []string) []StockPrice {
	out := make([]StockPrice, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		out[i] = StockPrice{Stock: symbol}
		g.Go(func() error {
			price, err := c.fetchPrice(gctx, symbol)
			if err != nil {
				c.logger.Error("stock price lookup failed",
					log.FieldSymbol, symbol, log.FieldError, err)
				return nil
			}
			out[i].Price = Float(price)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// intradayPayload mirrors the slice of the Alpha Vantage response we read.
type intradayPayload struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (5min)"`
}

func (c *AlphaVantageClient) fetchPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", symbol)
	q.Set("interval", "5min")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, lookupError("build request", symbol, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, lookupError("request", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, lookupError("request", symbol, fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload intradayPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, lookupError("decode payload", symbol, err)
	}
	if len(payload.Series) == 0 {
		return 0, lookupError("payload", symbol, fmt.Errorf("no intraday series"))
	}

	keys := make([]string, 0, len(payload.Series))
	for k := range payload.Series {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	price, err := strconv.ParseFloat(payload.Series[keys[0]].Close, 64)
	if err != nil {
		return 0, lookupError("close price", symbol, err)
	}

	return round2(price), nil
}
