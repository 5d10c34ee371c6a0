package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianbeese/luxury_estate/internal/paging"
)

// Catalog sources
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	DatabasePath string `yaml:"database_path"`
	StrictMode   bool   `yaml:"strict_mode"`

	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Listing  ListingConfig  `yaml:"listing"`
	Leads    LeadsConfig    `yaml:"leads"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// HTTPConfig for the REST API
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`
}

// LogConfig for slog output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // tint, text or json
}

// CatalogConfig selects where properties and tours come from
type CatalogConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"` // JSON file for the file source
}

// ListingConfig for pagination and listing sessions
type ListingConfig struct {
	PageSize      int           `yaml:"page_size"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// LeadsConfig for form submissions
type LeadsConfig struct {
	SubmitDelay  time.Duration `yaml:"submit_delay"`
	MaxPerMinute int           `yaml:"max_per_minute"`
	TemplatePath string        `yaml:"template_path"`
}

// RedisConfig for the optional listing cache
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// TelegramConfig for Telegram bot settings
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	Enabled  bool   `yaml:"enabled"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "data/luxury_estate.db",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "tint",
		},
		Catalog: CatalogConfig{
			Source: SourceEmbedded,
		},
		Listing: ListingConfig{
			PageSize:      paging.DefaultPageSize,
			SessionTTL:    30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Leads: LeadsConfig{
			SubmitDelay:  1500 * time.Millisecond,
			MaxPerMinute: 5,
			TemplatePath: "configs/acknowledgements.tmpl",
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		Telegram: TelegramConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Read YAML file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, target *string) {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	str("HTTP_ADDR", &c.HTTP.Addr)
	str("DATABASE_PATH", &c.DatabasePath)
	str("CATALOG_SOURCE", &c.Catalog.Source)
	str("CATALOG_PATH", &c.Catalog.Path)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("TELEGRAM_CHAT_ID"); ok && v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = chatID
	}
	if v, ok := lookup("TRUST_PROXY"); ok && v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRUST_PROXY: %w", err)
		}
		c.HTTP.TrustProxy = trust
	}
	if v, ok := lookup("STRICT_MODE"); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_MODE: %w", err)
		}
		c.StrictMode = strict
	}
	return nil
}

// Validate checks that enumerated settings hold known values
func (c *Config) Validate() error {
	var errs []error

	switch c.Catalog.Source {
	case SourceEmbedded, SourceSQLite:
	case SourceFile:
		if c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.path is required for the file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q: want embedded, file or sqlite", c.Catalog.Source))
	}

	switch strings.ToLower(c.Log.Format) {
	case "tint", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want tint, text or json", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level))
	}

	if c.Listing.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("listing.page_size must be positive, got %d", c.Listing.PageSize))
	}
	if c.Listing.SessionTTL > 0 && c.Listing.SweepInterval <= 0 {
		errs = append(errs, errors.New("listing.sweep_interval must be positive when sessions expire"))
	}
	if c.Leads.SubmitDelay < 0 {
		errs = append(errs, errors.New("leads.submit_delay must not be negative"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}

	// Telegram is optional; an enabled bot without a token just stays silent.
	return errors.Join(errs...)
}

// TelegramActive reports whether Telegram delivery can be used
func (c *Config) TelegramActive() bool {
	return c.Telegram.Enabled && c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
