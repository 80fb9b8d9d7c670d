// Package config loads player settings from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the player settings. CLI flags may override some of them
// per invocation.
type Config struct {
	// Playback settings
	FPSOffset   float64 `env:"FPS_OFFSET, default=0.1" json:"fps_offset" validate:"gte=0,lte=5"`
	ClearBefore bool    `env:"CLEAR_BEFORE, default=true" json:"clear_before"`

	// Storage settings
	CacheDir string `env:"CACHE_DIR, default=/tmp/asciiplay" json:"cache_dir"`

	// Optional S3 settings
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty" validate:"omitempty,url"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings; stdout is the playback surface so logs never go there.
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format" validate:"oneof=text json TEXT JSON"`
	LogLevel  string `env:"LOG_LEVEL, default=warn" json:"log_level" validate:"oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	LogFile   string `env:"LOG_FILE" json:"log_file,omitempty"`
}

// S3Enabled returns true if S3 locations can be resolved.
func (c *Config) S3Enabled() bool {
	return c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig
// and validates the result.
func Load() (*Config, error) {
	return LoadFrom(context.Background(), nil)
}

// LoadFrom is like Load but reads variables from lookuper when it is
// non-nil. It exists so tests do not need to mutate the process environment.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	ec := &envconfig.Config{Target: cfg}
	if lookuper != nil {
		ec.Lookuper = lookuper
	}
	if err := envconfig.ProcessWith(ctx, ec); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all configuration values are in range.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) != 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q (got %v)", ErrInvalid, fe.Field(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// NewLogger creates a structured logger writing to w, in JSON when
// LogFormat is "json" and as text otherwise.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{FPSOffset: %g, ClearBefore: %t, CacheDir: %s, S3Region: %s, S3Endpoint: %s, LogFormat: %s, LogLevel: %s, LogFile: %s}",
		c.FPSOffset,
		c.ClearBefore,
		c.CacheDir,
		c.S3Region,
		c.S3Endpoint,
		c.LogFormat,
		c.LogLevel,
		c.LogFile,
	)
}

// parseLogLevel maps LOG_LEVEL onto slog levels. Unknown values mean warn.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
