package market

import (
	"context"
	"testing"
	"time"

	"cardwatch/internal/log"
)

type countingRates struct {
	calls   int
	batches [][]string
	byCode  map[string]*float64
}

func (s *countingRates) Rates(_ context.Context, codes []string) []CurrencyRate {
	s.calls++
	s.batches = append(s.batches, codes)
	out := make([]CurrencyRate, len(codes))
	for i, code := range codes {
		out[i] = CurrencyRate{Currency: code, Rate: s.byCode[code]}
	}
	return out
}

type countingPrices struct {
	calls    int
	bySymbol map[string]*float64
}

func (s *countingPrices) Prices(_ context.Context, symbols []string) []StockPrice {
	s.calls++
	out := make([]StockPrice, len(symbols))
	for i, symbol := range symbols {
		out[i] = StockPrice{Stock: symbol, Price: s.bySymbol[symbol]}
	}
	return out
}

func TestCachedRates_ServesRepeatsFromCache(t *testing.T) {
	inner := &countingRates{byCode: map[string]*float64{
		"USD": Float(96.15),
		"EUR": Float(102.04),
	}}
	cached := NewCachedRates(inner, 16, time.Minute, log.Discard())
	ctx := context.Background()

	first := cached.Rates(ctx, []string{"USD", "EUR"})
	if inner.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", inner.calls)
	}
	if first[0].Rate == nil || *first[0].Rate != 96.15 {
		t.Errorf("USD = %+v", first[0])
	}

	second := cached.Rates(ctx, []string{"USD", "EUR"})
	if inner.calls != 1 {
		t.Errorf("provider calls = %d after a warm lookup, want 1", inner.calls)
	}
	if second[1].Rate == nil || *second[1].Rate != 102.04 {
		t.Errorf("EUR = %+v", second[1])
	}
}

func TestCachedRates_OnlyMissesGoOut(t *testing.T) {
	inner := &countingRates{byCode: map[string]*float64{
		"USD": Float(96.15),
		"GBP": Float(118.32),
	}}
	cached := NewCachedRates(inner, 16, time.Minute, log.Discard())
	ctx := context.Background()

	cached.Rates(ctx, []string{"USD"})
	cached.Rates(ctx, []string{"USD", "GBP"})

	if inner.calls != 2 {
		t.Fatalf("provider calls = %d, want 2", inner.calls)
	}
	last := inner.batches[len(inner.batches)-1]
	if len(last) != 1 || last[0] != "GBP" {
		t.Errorf("second batch = %v, want just the miss", last)
	}
}

func TestCachedRates_FailuresAreNotCached(t *testing.T) {
	inner := &countingRates{byCode: map[string]*float64{}}
	cached := NewCachedRates(inner, 16, time.Minute, log.Discard())
	ctx := context.Background()

	if got := cached.Rates(ctx, []string{"USD"}); got[0].Rate != nil {
		t.Errorf("rate = %v, want nil", *got[0].Rate)
	}

	// The provider recovers; the retry must reach it.
	inner.byCode["USD"] = Float(96.15)
	got := cached.Rates(ctx, []string{"USD"})
	if inner.calls != 2 {
		t.Errorf("provider calls = %d, want 2", inner.calls)
	}
	if got[0].Rate == nil || *got[0].Rate != 96.15 {
		t.Errorf("USD = %+v after provider recovery", got[0])
	}
}

func TestCachedRates_Expiry(t *testing.T) {
	inner := &countingRates{byCode: map[string]*float64{"USD": Float(96.15)}}
	cached := NewCachedRates(inner, 16, 10*time.Millisecond, log.Discard())
	ctx := context.Background()

	cached.Rates(ctx, []string{"USD"})
	time.Sleep(20 * time.Millisecond)
	cached.Rates(ctx, []string{"USD"})

	if inner.calls != 2 {
		t.Errorf("provider calls = %d, want 2 after expiry", inner.calls)
	}
}

func TestCachedPrices_ServesRepeatsFromCache(t *testing.T) {
	inner := &countingPrices{bySymbol: map[string]*float64{"AAPL": Float(178.23)}}
	cached := NewCachedPrices(inner, 16, time.Minute, log.Discard())
	ctx := context.Background()

	cached.Prices(ctx, []string{"AAPL"})
	got := cached.Prices(ctx, []string{"AAPL"})

	if inner.calls != 1 {
		t.Errorf("provider calls = %d, want 1", inner.calls)
	}
	if got[0].Price == nil || *got[0].Price != 178.23 {
		t.Errorf("AAPL = %+v", got[0])
	}
}

func TestTTLCache_Eviction(t *testing.T) {
	c := newTTLCache(2, time.Minute)
	c.set("a", 1)
	c.set("b", 2)
	c.set("c", 3) // evicts the least recently used "a"

	if _, ok := c.get("a"); ok {
		t.Error("oldest entry survived past capacity")
	}
	if v, ok := c.get("b"); !ok || v != 2 {
		t.Errorf("b = %v/%v, want 2/true", v, ok)
	}
	if v, ok := c.get("c"); !ok || v != 3 {
		t.Errorf("c = %v/%v, want 3/true", v, ok)
	}
}
