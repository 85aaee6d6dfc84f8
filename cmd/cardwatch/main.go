package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"cardwatch/internal/config"
	"cardwatch/internal/core"
	"cardwatch/internal/ledger"
	"cardwatch/internal/log"
	"cardwatch/internal/market"
	"cardwatch/internal/report"
	"cardwatch/internal/settings"
	"cardwatch/internal/sink"
)

// marketCacheSize bounds the per-process quote cache.
const marketCacheSize = 128

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "spending":
		err = runSpending(ctx, cfg, logger, os.Args[2:])
	case "roundup":
		err = runRoundUp(ctx, cfg, logger, os.Args[2:])
	case "dashboard":
		err = runDashboard(ctx, cfg, logger, os.Args[2:])
	default:
		// Bare timestamp means the dashboard report.
		err = runDashboard(ctx, cfg, logger, os.Args[1:])
	}
	if err != nil {
		logger.Error("command failed", log.FieldError, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  cardwatch dashboard "YYYY-MM-DD HH:MM:SS"
  cardwatch spending <category> [YYYY-MM-DD]
  cardwatch roundup <YYYY-MM> <limit>`)
}

// runDashboard composes the full dashboard for the reporting window
// [first day of the timestamp's month, timestamp].
func runDashboard(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 {
		usage()
		return fmt.Errorf("dashboard needs a timestamp argument")
	}

	ts, err := time.Parse("2006-01-02 15:04:05", args[0])
	if err != nil {
		return core.ParseErrorf("timestamp %q is not YYYY-MM-DD HH:MM:SS", args[0])
	}
	from := core.NewDate(ts.Year(), int(ts.Month()), 1)
	to := core.NewDate(ts.Year(), int(ts.Month()), ts.Day())

	source, cleanup, err := newLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(cleanup, logger)

	expenses, err := source.ListTransactions(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	us := settings.Load(cfg.SettingsPath, logger)

	var rates market.RateSource = market.NewExchangeRates(market.ExchangeRatesConfig{
		APIKey:  cfg.ExchangeRatesKey,
		BaseURL: cfg.ExchangeRatesURL,
		Base:    cfg.BaseCurrency,
		Timeout: cfg.LookupTimeout,
	}, logger)
	var prices market.PriceSource = market.NewAlphaVantage(market.AlphaVantageConfig{
		APIKey:  cfg.AlphaVantageKey,
		BaseURL: cfg.AlphaVantageURL,
		Timeout: cfg.LookupTimeout,
	}, logger)
	if cfg.MarketCacheTTL > 0 {
		rates = market.NewCachedRates(rates, marketCacheSize, cfg.MarketCacheTTL, logger)
		prices = market.NewCachedPrices(prices, marketCacheSize, cfg.MarketCacheTTL, logger)
	}

	composer := report.NewComposer(rates, prices, nil, logger)
	resp := composer.Compose(ctx, expenses, us)

	return printJSON(resp)
}

// runSpending prints the three-month category spend report, persisting it
// through the configured report sink.
func runSpending(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		usage()
		return fmt.Errorf("spending needs a category and an optional date")
	}
	category := args[0]
	refDate := ""
	if len(args) == 2 {
		refDate = args[1]
	}

	source, cleanup, err := newLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(cleanup, logger)

	// The source window is generous by a month on the lower bound; the
	// aggregator applies the precise clamped three-month window itself.
	ref := time.Now()
	if refDate != "" {
		parsed, err := core.ParseDate(refDate)
		if err != nil {
			return err
		}
		ref = parsed.Time
	}
	from := core.Date{Time: ref.AddDate(0, -4, 0)}
	to := core.Date{Time: ref}

	table, err := source.ListTransactions(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	reportSink, sinkCleanup, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(sinkCleanup, logger)

	compute := sink.WithReportLog(func(ctx context.Context) (report.CategoryTable, error) {
		return report.SpendingByCategory(table, category, refDate, nil)
	}, reportSink, logger)

	result, err := compute(ctx)
	if err != nil {
		return err
	}
	return printJSON(result.Records())
}

// runRoundUp prints the investment pot total for the target month.
func runRoundUp(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 2 {
		usage()
		return fmt.Errorf("roundup needs a month and a limit")
	}
	month := args[0]
	limit, err := strconv.Atoi(args[1])
	if err != nil {
		return core.InvalidArgumentf("round-up limit %q is not a number", args[1])
	}

	source, cleanup, err := newLedger(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(cleanup, logger)

	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return core.InvalidArgumentf("round-up month %q is not YYYY-MM", month)
	}
	// The source windows on payment date while the calculator selects by
	// operation date, so pad both ends by a month.
	from := core.Date{Time: monthStart.AddDate(0, -1, 0)}
	to := core.Date{Time: monthStart.AddDate(0, 2, 0)}

	table, err := source.ListTransactions(ctx, from, to)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	reportSink, sinkCleanup, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuietly(sinkCleanup, logger)

	compute := sink.WithReportLog(func(ctx context.Context) (report.RoundUpSummary, error) {
		total, err := report.RoundUp(month, table, limit)
		if err != nil {
			return report.RoundUpSummary{}, err
		}
		return report.RoundUpSummary{Month: month, Limit: limit, Total: total}, nil
	}, reportSink, logger)

	result, err := compute(ctx)
	if err != nil {
		return err
	}
	return printJSON(result.Records()[0])
}

func newLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (ledger.TransactionReader, ledger.CleanupFunc, error) {
	return ledger.New(ctx, ledger.Config{
		Backend:         ledger.Backend(cfg.LedgerBackend),
		CSVPath:         cfg.CSVPath,
		SQLiteDBPath:    cfg.SQLiteDBPath,
		PostgresDSN:     cfg.PostgresDSN,
		SpreadsheetID:   cfg.SpreadsheetID,
		SheetName:       cfg.SheetName,
		CredentialsJSON: cfg.SheetsCredentialsJSON,
		CredentialsFile: cfg.SheetsCredentialsFile,
	}, logger)
}

func newSink(cfg *config.Config, logger *log.Logger) (sink.Sink, ledger.CleanupFunc, error) {
	switch cfg.ReportSink {
	case "file":
		return sink.NewFileSink(cfg.ReportDir, cfg.ReportFile, logger), nil, nil
	case "amqp":
		s, err := sink.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("amqp sink: %w", err)
		}
		return s, s.Close, nil
	default:
		return sink.Noop{}, nil, nil
	}
}

func closeQuietly(cleanup ledger.CleanupFunc, logger *log.Logger) {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil {
		logger.Warn("cleanup failed", log.FieldError, err)
	}
}

func printJSON(v any) error {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
