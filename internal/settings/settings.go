// Package settings loads the user dashboard preferences. A missing or
// malformed settings document is never an error for the caller: the loader
// logs the cause and falls back to empty settings, so the dashboard still
// renders with empty rate and price lists.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"cardwatch/internal/log"
)

// UserSettings selects which currencies and stocks appear on the dashboard.
// Absent keys default to empty lists.
type UserSettings struct {
	UserCurrencies []string `json:"user_currencies" yaml:"user_currencies"`
	UserStocks     []string `json:"user_stocks" yaml:"user_stocks"`
}

// Load reads user settings from a JSON or YAML document, chosen by file
// extension. Not-found and parse failures are distinguished in the log but
// both recover to empty settings.
func Load(path string, logger *log.Logger) UserSettings {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentSettings)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error("settings file not found", log.FieldPath, path)
		} else {
			logger.Error("settings file unreadable", log.FieldPath, path, log.FieldError, err)
		}
		return UserSettings{}
	}

	var us UserSettings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &us)
	default:
		err = json.Unmarshal(data, &us)
	}
	if err != nil {
		logger.Error("settings file malformed", log.FieldPath, path, log.FieldError, err)
		return UserSettings{}
	}

	return us
}
