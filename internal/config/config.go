// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration values.
type Config struct {
	Port               string        `mapstructure:"PORT"`
	DatabasePath       string        `mapstructure:"DATABASE_PATH"`
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	EncryptionKey      string        `mapstructure:"ENCRYPTION_KEY"`
	BcryptCost         int           `mapstructure:"BCRYPT_COST"`
	AllowedOrigins     string        `mapstructure:"ALLOWED_ORIGINS"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	MaxImportItems     int           `mapstructure:"MAX_IMPORT_ITEMS"`
	SuggestionAPIURL   string        `mapstructure:"SUGGESTION_API_URL"`
	SuggestionModel    string        `mapstructure:"SUGGESTION_MODEL"`
	SuggestionTimeout  time.Duration `mapstructure:"SUGGESTION_TIMEOUT"`
	LoginRatePerMinute int           `mapstructure:"LOGIN_RATE_PER_MINUTE"`
	SuggestRatePerMin  int           `mapstructure:"SUGGESTION_RATE_PER_MINUTE"`
}

// Load reads a .env file from the working directory if one exists, then
// overlays the process environment on the defaults and validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "shoplist.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ENCRYPTION_KEY", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_IMPORT_ITEMS", 500)
	v.SetDefault("SUGGESTION_API_URL", "")
	v.SetDefault("SUGGESTION_MODEL", "gemini-1.5-flash")
	v.SetDefault("SUGGESTION_TIMEOUT", "15s")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	v.SetDefault("SUGGESTION_RATE_PER_MINUTE", 6)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the settings the process refuses to start without.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if len(c.EncryptionKey) != 64 {
		return errors.New("ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes)")
	}
	if _, err := hex.DecodeString(c.EncryptionKey); err != nil {
		return errors.New("ENCRYPTION_KEY must be hex encoded")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.MaxImportItems < 1 {
		return fmt.Errorf("MAX_IMPORT_ITEMS must be positive, got %d", c.MaxImportItems)
	}
	if c.LoginRatePerMinute < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be positive, got %d", c.LoginRatePerMinute)
	}
	if c.SuggestRatePerMin < 1 {
		return fmt.Errorf("SUGGESTION_RATE_PER_MINUTE must be positive, got %d", c.SuggestRatePerMin)
	}
	if c.SuggestionTimeout <= 0 {
		return errors.New("SUGGESTION_TIMEOUT must be a positive duration")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel)
	}
	return level, nil
}

// SuggestionsEnabled reports whether an outbound suggestion provider is configured.
func (c *Config) SuggestionsEnabled() bool {
	return c.SuggestionAPIURL != ""
}
