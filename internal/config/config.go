// Package config loads server configuration: built-in defaults, then an
// optional config.toml, then environment variables (optionally read from a
// .env file outside production).
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Config is the server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Session  SessionConfig  `toml:"session"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port       int    `toml:"port"`
	StaticPath string `toml:"static_path"`
	LogLevel   string `toml:"log_level"`
}

// AnalyzerConfig configures the vision model and the analysis cache.
type AnalyzerConfig struct {
	APIKey       string   `toml:"api_key"`
	Endpoint     string   `toml:"endpoint"`
	Model        string   `toml:"model"`
	MaxTokens    int      `toml:"max_tokens"`
	Timeout      Duration `toml:"timeout"`
	CacheTTL     Duration `toml:"cache_ttl"`
	CacheEntries int      `toml:"cache_entries"`

	// CachePath selects a SQLite cache file; empty keeps the cache in memory.
	CachePath string `toml:"cache_path"`
}

// SessionConfig configures session tokens and split defaults.
type SessionConfig struct {
	Secret        string   `toml:"secret"`
	TTL           Duration `toml:"ttl"`
	Currency      string   `toml:"currency"`
	Locale        string   `toml:"locale"`
	// Places is the number of decimals shares are rounded to and shown
	// with. Negative uses the currency's standard minor unit.
	Places        int      `toml:"places"`
	DefaultRoster []string `toml:"default_roster"`
}

// Duration is a time.Duration written as a string such as "12h" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       8080,
			StaticPath: "../frontend/dist",
			LogLevel:   "info",
		},
		Analyzer: AnalyzerConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o",
			MaxTokens:    1000,
			Timeout:      Duration{60 * time.Second},
			CacheTTL:     Duration{time.Hour},
			CacheEntries: 256,
		},
		Session: SessionConfig{
			TTL:           Duration{12 * time.Hour},
			Currency:      "IDR",
			Locale:        "id",
			Places:        2,
			DefaultRoster: []string{"Alex", "Sam", "Riley"},
		},
	}
}

// Load builds the configuration. The TOML file is read from CONFIG_PATH
// (default config.toml) and may be absent. A .env file is loaded unless
// APP_ENV is "production".
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.toml"
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a TOML file over the defaults. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := getenv("STATIC_PATH"); v != "" {
		c.Server.StaticPath = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}

	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.Analyzer.APIKey = v
	}
	if v := getenv("OPENAI_ENDPOINT"); v != "" {
		c.Analyzer.Endpoint = v
	}
	if v := getenv("OPENAI_MODEL"); v != "" {
		c.Analyzer.Model = v
	}
	if v := getenv("ANALYSIS_CACHE_PATH"); v != "" {
		c.Analyzer.CachePath = v
	}

	if v := getenv("SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		c.Session.TTL = Duration{ttl}
	}
	if v := getenv("CURRENCY"); v != "" {
		c.Session.Currency = strings.ToUpper(v)
	}
	if v := getenv("LOCALE"); v != "" {
		c.Session.Locale = v
	}
	if v := getenv("CURRENCY_PLACES"); v != "" {
		places, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CURRENCY_PLACES %q: %w", v, err)
		}
		c.Session.Places = places
	}
	if v := getenv("DEFAULT_ROSTER"); v != "" {
		var roster []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				roster = append(roster, name)
			}
		}
		c.Session.DefaultRoster = roster
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if _, err := currency.ParseISO(c.Session.Currency); err != nil {
		errs = append(errs, fmt.Errorf("currency %q is not an ISO 4217 code", c.Session.Currency))
	}
	if _, err := language.Parse(c.Session.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q is not a BCP 47 tag", c.Session.Locale))
	}
	if c.Session.Places > 8 {
		errs = append(errs, fmt.Errorf("places %d exceeds 8", c.Session.Places))
	}
	if c.Session.TTL.Duration <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Analyzer.MaxTokens <= 0 {
		errs = append(errs, errors.New("analyzer max_tokens must be positive"))
	}
	return errors.Join(errs...)
}

// EnsureSessionSecret fills in a random secret when none is configured and
// reports whether it did. Tokens signed with a generated secret do not
// survive a restart.
func (c *Config) EnsureSessionSecret() (bool, error) {
	if c.Session.Secret != "" {
		return false, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("generate session secret: %w", err)
	}
	c.Session.Secret = hex.EncodeToString(buf)
	return true, nil
}
