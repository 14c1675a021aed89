// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Catalog API
	CatalogAPIURL      string        `env:"CATALOG_API_URL,required,notEmpty"`
	CatalogTimeout     time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogMaxAttempts int           `env:"CATALOG_MAX_ATTEMPTS" envDefault:"3"`

	// Cache (Redis). Empty disables caching.
	RedisURL         string        `env:"REDIS_URL"`
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	NegativeCacheTTL time.Duration `env:"NEGATIVE_CACHE_TTL" envDefault:"1m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rendering
	AvatarBaseURL string `env:"AVATAR_BASE_URL" envDefault:"https://www.gravatar.com/avatar/"`
	AvatarSize    int    `env:"AVATAR_SIZE" envDefault:"0"`
	AvatarDefault string `env:"AVATAR_DEFAULT" envDefault:""`
	NoImagePath   string `env:"NO_IMAGE_PATH" envDefault:"images/no-image.png"`
	SortLocale    string `env:"SORT_LOCALE" envDefault:"en"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

// Locale returns the parsed SORT_LOCALE.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.SortLocale)
	if err != nil {
		return language.Und
	}
	return tag
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or values are invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotenv reads KEY=VALUE files into the process environment.
// Variables that are already set win, and missing files are skipped.
// With no paths it reads ".env" from the working directory.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if _, err := language.Parse(c.SortLocale); err != nil {
		return fmt.Errorf("invalid SORT_LOCALE %q: %w", c.SortLocale, err)
	}
	if c.CatalogMaxAttempts < 1 {
		return fmt.Errorf("CATALOG_MAX_ATTEMPTS must be at least 1, got %d", c.CatalogMaxAttempts)
	}
	if c.AvatarSize < 0 {
		return fmt.Errorf("AVATAR_SIZE must not be negative, got %d", c.AvatarSize)
	}
	return nil
}
