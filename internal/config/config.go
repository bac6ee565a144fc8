// Package config loads service settings from environment variables, applying
// defaults and validating everything at startup so a bad deployment fails
// before it accepts traffic.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to.
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on. PORT is honoured for hosting platforms
	// that inject it.
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"3000"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout caps a whole request, including every worksheet fetch.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SheetsConfig describes the spreadsheet and how hard we may hit it.
type SheetsConfig struct {
	// SpreadsheetID is the spreadsheet key or its full docs.google.com URL.
	SpreadsheetID string `env:"SPREADSHEET_ID" required:"true"`

	// CredentialsFile is a service-account key file.
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envAlt:"GOOGLE_APPLICATION_CREDENTIALS" default:"credentials.json"`

	// CredentialsJSON is the key itself; it takes precedence over the file.
	CredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`

	// MaxConcurrent bounds in-flight worksheet fetches across all requests.
	MaxConcurrent int `env:"SHEETS_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a new request waits for a free slot before it is
	// turned away as busy.
	MaxWait time.Duration `env:"SHEETS_MAX_WAIT" default:"10s"`

	// FetchTimeout bounds one worksheet fetch.
	FetchTimeout time.Duration `env:"SHEETS_FETCH_TIMEOUT" default:"20s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" default:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds proxy trust settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of CIDRs allowed to set
	// X-Real-IP / X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "SERVER_WRITE_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	if strings.TrimSpace(c.Sheets.SpreadsheetID) == "" {
		errs = append(errs, "SPREADSHEET_ID is required")
	}
	if c.Sheets.CredentialsJSON == "" && strings.TrimSpace(c.Sheets.CredentialsFile) == "" {
		errs = append(errs, "one of GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is required")
	}
	if c.Sheets.MaxConcurrent <= 0 {
		errs = append(errs, "SHEETS_MAX_CONCURRENT must be positive")
	}
	if c.Sheets.MaxWait <= 0 {
		errs = append(errs, "SHEETS_MAX_WAIT must be positive")
	}
	if c.Sheets.FetchTimeout <= 0 {
		errs = append(errs, "SHEETS_FETCH_TIMEOUT must be positive")
	}
	if c.Sheets.FetchTimeout > c.Server.RequestTimeout && c.Server.RequestTimeout > 0 {
		errs = append(errs, fmt.Sprintf("SHEETS_FETCH_TIMEOUT (%s) must not exceed SERVER_REQUEST_TIMEOUT (%s)",
			c.Sheets.FetchTimeout, c.Server.RequestTimeout))
	}

	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String renders c for logs with credentials masked.
func (c *Config) String() string {
	creds := "file:" + c.Sheets.CredentialsFile
	if c.Sheets.CredentialsJSON != "" {
		creds = "inline:[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Addr: %q, RequestTimeout: %s}, ", c.Server.Addr(), c.Server.RequestTimeout)
	fmt.Fprintf(&b, "Sheets: {SpreadsheetID: %q, Credentials: %s, MaxConcurrent: %d, FetchTimeout: %s}, ",
		c.Sheets.SpreadsheetID, creds, c.Sheets.MaxConcurrent, c.Sheets.FetchTimeout)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ", c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
