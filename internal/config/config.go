// Package config loads the application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// HTTP configures the API server.
type HTTP struct {
	// Port is the TCP port the server binds to.
	Port uint16 `env:"PORT" envDefault:"8080"`
}

// Logger configures the structured logger. Level accepts "debug",
// "info", "warn" and "error"; Format accepts "text" or "json".
type Logger struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// SlogLevel converts the textual level into a slog.Level. Unknown
// levels default to info.
func (c Logger) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat normalises the requested log format to "text" or "json".
func (c Logger) SlogFormat() string {
	if strings.ToLower(c.Format) == "json" {
		return "json"
	}
	return "text"
}

// Sheets configures the spreadsheet source. Backend selects between
// the live Google Sheets reader ("sheets") and the built-in demo data
// ("demo"). Tab name lists are tried in order until one exists.
type Sheets struct {
	Backend          string        `env:"BACKEND" envDefault:"demo"`
	SpreadsheetID    string        `env:"SPREADSHEET_ID"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	LeadTabs         []string      `env:"LEAD_TABS" envDefault:"LEADS"`
	QualifiedTabs    []string      `env:"QUALIFIED_TABS" envDefault:"LEADS QUALIFICADOS"`
	DisqualifiedTabs []string      `env:"DISQUALIFIED_TABS" envDefault:"LEADS DESQUALIFICADOS"`
	ConvertedTabs    []string      `env:"CONVERTED_TABS" envDefault:"CONTRATOS FECHADOS"`
}

// Meta configures the Meta Ads client. Empty credentials leave the
// client unconfigured and every metric reads as zero.
type Meta struct {
	AccessToken string        `env:"ACCESS_TOKEN"`
	AccountID   string        `env:"ACCOUNT_ID"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Google configures the Google Ads client.
type Google struct {
	DeveloperToken string        `env:"DEVELOPER_TOKEN"`
	AccessToken    string        `env:"ACCESS_TOKEN"`
	CustomerID     string        `env:"CUSTOMER_ID"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Config aggregates every section. Nested structs are populated from
// prefixed environment variables.
type Config struct {
	Env    string `env:"ENV" envDefault:"prod"`
	HTTP   HTTP   `envPrefix:"HTTP_"`
	Log    Logger `envPrefix:"LOG_"`
	Sheets Sheets `envPrefix:"SHEETS_"`
	Meta   Meta   `envPrefix:"META_"`
	Google Google `envPrefix:"GOOGLE_ADS_"`
}

// Load reads .env (when present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Sheets.Backend {
	case "demo", "sheets":
	default:
		return fmt.Errorf("unknown sheets backend %q", c.Sheets.Backend)
	}
	if c.Sheets.Backend == "sheets" && c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the sheets backend")
	}
	return nil
}
