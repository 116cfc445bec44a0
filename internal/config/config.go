package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/logging"
)

// Config is the kitersd runtime configuration, read from KITERS_* variables.
type Config struct {
	HTTPAddr        string        `env:"KITERS_HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"KITERS_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DatabaseURL enables the Postgres store when set.
	DatabaseURL string `env:"KITERS_DATABASE_URL"`
	// RedisAddr enables the L2 lookup cache when set.
	RedisAddr     string        `env:"KITERS_REDIS_ADDR"`
	RedisPassword string        `env:"KITERS_REDIS_PASSWORD"`
	RedisDB       int           `env:"KITERS_REDIS_DB" envDefault:"0"`
	CacheSize     int           `env:"KITERS_CACHE_SIZE" envDefault:"1000"`
	CacheTTL      time.Duration `env:"KITERS_CACHE_TTL" envDefault:"5m"`

	RequestIDWidth string `env:"KITERS_REQUEST_ID_WIDTH" envDefault:"narrow"`
	RequestIDMixed bool   `env:"KITERS_REQUEST_ID_MIXED" envDefault:"true"`

	LogLevel  string `env:"KITERS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"KITERS_LOG_FORMAT" envDefault:"text"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom reads from environ instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return load(env.Options{Environment: environ})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that would otherwise fail later at runtime.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("KITERS_HTTP_ADDR must not be empty"))
	}
	if _, err := idgen.ParseWidth(c.RequestIDWidth); err != nil {
		errs = append(errs, fmt.Errorf("KITERS_REQUEST_ID_WIDTH: %w", err))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("KITERS_CACHE_SIZE must be positive, got %d", c.CacheSize))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("KITERS_CACHE_TTL must be positive, got %s", c.CacheTTL))
	}
	return errors.Join(errs...)
}

// Width returns the configured request ID width. Call after Validate.
func (c Config) Width() idgen.Width {
	w, _ := idgen.ParseWidth(c.RequestIDWidth)
	return w
}

// Logging returns the logger configuration.
func (c Config) Logging() logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.LogLevel),
		Format: logging.ParseFormat(c.LogFormat),
	}
}
