// Package config handles application configuration loading from defaults, an
// optional YAML file and environment variables. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection. DatabaseURL, when set, wins over the parts.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Valkey (Redis-compatible) backs the shared rate limiter. Empty host
	// means the in-process limiter is used instead.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Rate limiting on mutating API routes, per client IP.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel  string // "debug", "info", "warn", "error"
	LogFormat string // "text", "json"; empty picks by Env
}

// defaults maps every configuration key to its development default.
// Registering each key is also what lets AutomaticEnv find its variable.
var defaults = map[string]any{
	"app.host": "0.0.0.0",
	"app.port": "8080",
	"app.env":  "development",

	"database_url":      "",
	"postgres.host":     "localhost",
	"postgres.port":     "5432",
	"postgres.user":     "inkwell",
	"postgres.password": "changeme",
	"postgres.db":       "inkwell",
	"postgres.sslmode":  "disable",

	"valkey.host":     "",
	"valkey.port":     "6379",
	"valkey.password": "",

	"rate_limit.requests": 60,
	"rate_limit.window":   "1m",

	"log.level":  "info",
	"log.format": "",
}

// Load reads configuration, applying defaults for development where
// appropriate. Keys map to environment variables by upper-casing and
// replacing dots with underscores ("postgres.host" is POSTGRES_HOST). If
// path is not empty the YAML file there is read first; environment
// variables still win over it. Returns an error if critical values are
// missing in production mode.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	window, err := time.ParseDuration(v.GetString("rate_limit.window"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}

	cfg := &Config{
		Host: v.GetString("app.host"),
		Port: v.GetString("app.port"),
		Env:  v.GetString("app.env"),

		DatabaseURL: v.GetString("database_url"),
		DBHost:      v.GetString("postgres.host"),
		DBPort:      v.GetString("postgres.port"),
		DBUser:      v.GetString("postgres.user"),
		DBPassword:  v.GetString("postgres.password"),
		DBName:      v.GetString("postgres.db"),
		DBSSLMode:   v.GetString("postgres.sslmode"),

		ValkeyHost:     v.GetString("valkey.host"),
		ValkeyPort:     v.GetString("valkey.port"),
		ValkeyPassword: v.GetString("valkey.password"),

		RateLimitRequests: v.GetInt("rate_limit.requests"),
		RateLimitWindow:   window,

		LogLevel:  strings.ToLower(v.GetString("log.level")),
		LogFormat: strings.ToLower(v.GetString("log.format")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == "production" && c.DatabaseURL == "" && c.DBPassword == "changeme" {
		return errors.New("POSTGRES_PASSWORD must be set in production")
	}
	if c.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return net.JoinHostPort(c.ValkeyHost, c.ValkeyPort)
}

// ValkeyEnabled reports whether a Valkey server is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// JSONLogs reports whether logs should be written as JSON. Without an
// explicit LOG_FORMAT, development logs text and everything else JSON.
func (c *Config) JSONLogs() bool {
	if c.LogFormat != "" {
		return c.LogFormat == "json"
	}
	return !c.IsDev()
}
