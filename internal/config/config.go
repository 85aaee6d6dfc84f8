package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Ledger source
	LedgerBackend string
	CSVPath       string
	SQLiteDBPath  string
	PostgresDSN   string

	// Google Sheets ledger
	SpreadsheetID         string
	SheetName             string
	SheetsCredentialsJSON string
	SheetsCredentialsFile string

	// User settings document
	SettingsPath string

	// Market data providers
	AlphaVantageKey  string
	AlphaVantageURL  string
	ExchangeRatesKey string
	ExchangeRatesURL string
	BaseCurrency     string
	LookupTimeout    time.Duration
	MarketCacheTTL   time.Duration

	// Report sink
	ReportSink   string
	ReportDir    string
	ReportFile   string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		LedgerBackend: getEnv("LEDGER_BACKEND", "csv"),
		CSVPath:       getEnv("LEDGER_CSV_PATH", "./data/operations.csv"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/cardwatch.db"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),

		SpreadsheetID:         getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetName:             getEnv("GOOGLE_SHEET_NAME", "Transactions"),
		SheetsCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		SheetsCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		SettingsPath: getEnv("USER_SETTINGS_PATH", "./user_settings.json"),

		AlphaVantageKey:  getEnv("API_KEY_ALPHA", ""),
		AlphaVantageURL:  getEnv("ALPHA_VANTAGE_URL", ""),
		ExchangeRatesKey: getEnv("API_KEY_APILAYER", ""),
		ExchangeRatesURL: getEnv("EXCHANGE_RATES_URL", ""),
		BaseCurrency:     getEnv("BASE_CURRENCY", "RUB"),
		LookupTimeout:    getEnvDuration("LOOKUP_TIMEOUT", 10*time.Second),
		MarketCacheTTL:   getEnvDuration("MARKET_CACHE_TTL", 5*time.Minute),

		ReportSink:   getEnv("REPORT_SINK", "file"),
		ReportDir:    getEnv("REPORT_DIR", "./reports"),
		ReportFile:   getEnv("REPORT_FILE", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cardwatch"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_log"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	validBackends := []string{"memory", "csv", "sqlite", "postgres", "sheets"}
	isValidBackend := false
	for _, b := range validBackends {
		if c.LedgerBackend == b {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}

	switch c.LedgerBackend {
	case "csv":
		if c.CSVPath == "" {
			errs = append(errs, "ledger CSV path cannot be empty when using the csv backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using the sqlite backend")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, "Postgres DSN cannot be empty when using the postgres backend")
		}
	case "sheets":
		if c.SpreadsheetID == "" {
			errs = append(errs, "Google Spreadsheet ID is required when using the sheets backend")
		}
	}

	validSinks := []string{"none", "file", "amqp"}
	isValidSink := false
	for _, s := range validSinks {
		if c.ReportSink == s {
			isValidSink = true
			break
		}
	}
	if !isValidSink {
		errs = append(errs, fmt.Sprintf("invalid report sink '%s': must be one of %v", c.ReportSink, validSinks))
	}

	if c.ReportSink == "amqp" {
		if c.AMQPURL == "" {
			errs = append(errs, "AMQP URL cannot be empty when using the amqp report sink")
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when using the amqp report sink")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when using the amqp report sink")
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
	}

	if c.LookupTimeout < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid lookup timeout %v: must be at least 100ms", c.LookupTimeout))
	} else if c.LookupTimeout > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid lookup timeout %v: must be at most 1 minute", c.LookupTimeout))
	}

	if c.MarketCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid market cache TTL %v: must not be negative", c.MarketCacheTTL))
	}

	if len(c.BaseCurrency) != 3 {
		errs = append(errs, fmt.Sprintf("invalid base currency '%s': must be a 3-letter code", c.BaseCurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
