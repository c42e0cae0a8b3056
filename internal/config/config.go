// Package config provides configuration loading for the bomconv server.
//
// Settings come from hardcoded defaults, an optional YAML file and BOMCONV_-prefixed
// environment variables, in increasing order of precedence. Validate fails fast on
// misconfiguration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Upload  UploadConfig  `koanf:"upload"`
	Logging LoggingConfig `koanf:"logging"`
	Extract ExtractConfig `koanf:"extract"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `koanf:"host"`

	// Port is the port to listen on (default: 5000)
	Port int `koanf:"port"`

	// ReadTimeout is the maximum duration for reading a request (default: 30s)
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response (default: 120s)
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// UploadConfig holds limits applied to uploaded files.
type UploadConfig struct {
	// MaxFileSize is the maximum upload size in bytes (default: 32MB)
	MaxFileSize int64 `koanf:"max_file_size"`

	// MaxConcurrent is the number of conversions allowed to run at once (default: 4)
	MaxConcurrent int `koanf:"max_concurrent"`

	// MaxWait is how long a request waits for a conversion slot (default: 10s)
	MaxWait time.Duration `koanf:"max_wait"`

	// Timeout bounds a single conversion (default: 60s)
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `koanf:"level"`

	// Format is json or console (default: json)
	Format string `koanf:"format"`
}

// ExtractConfig holds defaults for conversion requests.
type ExtractConfig struct {
	// KeepParentheses is used when a request does not say whether to remove
	// parenthesized references (default: false)
	KeepParentheses bool `koanf:"keep_parentheses"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Upload: UploadConfig{
			MaxFileSize:   32 << 20,
			MaxConcurrent: 4,
			MaxWait:       10 * time.Second,
			Timeout:       60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_file_size must be positive, got %d", c.Upload.MaxFileSize))
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_concurrent must be positive, got %d", c.Upload.MaxConcurrent))
	}
	if c.Upload.MaxWait < 0 {
		errs = append(errs, errors.New("upload.max_wait must not be negative"))
	}
	if c.Upload.Timeout <= 0 {
		errs = append(errs, errors.New("upload.timeout must be positive"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
