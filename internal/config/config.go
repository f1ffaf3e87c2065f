// Package config loads and stores CLI configuration in the XDG config dir.
// Values are resolved in three layers: built-in defaults, the JSON file, then
// QUERYDECK_* environment variables. Command-line flags are applied on top by cmd.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"querydeck/cli/internal/xdg"
)

// Environment variables that override file settings.
const (
	EnvServer   = "QUERYDECK_SERVER"
	EnvLogLevel = "QUERYDECK_LOG_LEVEL"
	EnvDSN      = "QUERYDECK_DSN"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	// Server is the backend origin, e.g. http://localhost:8080.
	Server    string          `json:"server"`
	LogLevel  string          `json:"log_level"`
	Reconnect ReconnectConfig `json:"reconnect"`
	// DiscardStaleResults drops query responses superseded by a newer submission.
	DiscardStaleResults bool        `json:"discard_stale_results"`
	Serve               ServeConfig `json:"serve"`
}

// ReconnectConfig selects the live-channel backoff policy.
type ReconnectConfig struct {
	Strategy    string `json:"strategy"` // fixed|exponential
	DelayMS     int    `json:"delay_ms"`
	MaxDelayMS  int    `json:"max_delay_ms"`
	MaxAttempts int    `json:"max_attempts"` // 0 = unbounded
}

// Delay returns the base reconnect delay.
func (r ReconnectConfig) Delay() time.Duration {
	return time.Duration(r.DelayMS) * time.Millisecond
}

// MaxDelay returns the reconnect delay cap used by the exponential strategy.
func (r ReconnectConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMS) * time.Millisecond
}

// ServeConfig holds settings for the development backend.
type ServeConfig struct {
	Addr       string `json:"addr"`
	Engine     string `json:"engine"` // demo|sqlite|postgres
	SQLitePath string `json:"sqlite_path"`
	DSN        string `json:"dsn"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   "http://localhost:8080",
		LogLevel: "info",
		Reconnect: ReconnectConfig{
			Strategy:   "fixed",
			DelayMS:    3000,
			MaxDelayMS: 30000,
		},
		DiscardStaleResults: true,
		Serve: ServeConfig{
			Addr:       ":8080",
			Engine:     "demo",
			SQLitePath: ":memory:",
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Fields absent from
// the file keep their default values. Environment overrides are applied.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	applyEnv(&c)
	return c, c.Validate()
}

// LoadFile is Load without environment overrides, for editing the file.
func LoadFile() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing %s: %w", p, err)
	}
	return c, nil
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvServer)); v != "" {
		c.Server = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDSN)); v != "" {
		c.Serve.DSN = v
	}
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	switch strings.ToLower(c.Reconnect.Strategy) {
	case "", "fixed", "exponential":
	default:
		return fmt.Errorf("unknown reconnect strategy %q", c.Reconnect.Strategy)
	}
	if c.Reconnect.DelayMS < 0 || c.Reconnect.MaxDelayMS < 0 || c.Reconnect.MaxAttempts < 0 {
		return errors.New("reconnect settings must not be negative")
	}
	switch strings.ToLower(c.Serve.Engine) {
	case "", "demo", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown serve engine %q", c.Serve.Engine)
	}
	return nil
}

// Set updates a single field addressed by its JSON key path.
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "log_level":
		c.LogLevel = value
	case "reconnect.strategy":
		c.Reconnect.Strategy = value
	case "reconnect.delay_ms", "reconnect.max_delay_ms", "reconnect.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "reconnect.delay_ms":
			c.Reconnect.DelayMS = n
		case "reconnect.max_delay_ms":
			c.Reconnect.MaxDelayMS = n
		default:
			c.Reconnect.MaxAttempts = n
		}
	case "serve.addr":
		c.Serve.Addr = value
	case "serve.engine":
		c.Serve.Engine = value
	case "serve.sqlite_path":
		c.Serve.SQLitePath = value
	case "serve.dsn":
		c.Serve.DSN = value
	case "discard_stale_results":
		c.DiscardStaleResults = value == "true" || value == "1"
	default:
		return fmt.Errorf("unknown or read-only key %q", key)
	}
	return c.Validate()
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
