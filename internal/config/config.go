// Package config loads runtime settings from the environment (optionally
// seeded from a .env file) with development defaults.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"APP_ENV"`
	DBDriver       string        `mapstructure:"DB_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	TemplatesDir   string        `mapstructure:"TEMPLATES_DIR"`
	StaticDir      string        `mapstructure:"STATIC_DIR"`
	MediaRoot      string        `mapstructure:"MEDIA_ROOT"`
	PostsPerPage   int           `mapstructure:"POSTS_PER_PAGE"`
	IndexCacheTTL  time.Duration `mapstructure:"INDEX_CACHE_TTL"`
	CacheBackend   string        `mapstructure:"CACHE_BACKEND"`
	CacheSize      int           `mapstructure:"CACHE_SIZE"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	CacheDir       string        `mapstructure:"CACHE_DIR"`
	SiteURL        string        `mapstructure:"SITE_URL"`
	MaxUploadBytes int64         `mapstructure:"MAX_UPLOAD_BYTES"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable TimeZone=UTC")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("TEMPLATES_DIR", "./web/templates")
	v.SetDefault("STATIC_DIR", "./web/static")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("POSTS_PER_PAGE", 10)
	v.SetDefault("INDEX_CACHE_TTL", "20s")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("CACHE_SIZE", 500)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CACHE_DIR", "")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_EXPORTER", "stdout")
	v.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("TRACING_SAMPLE_RATIO", 1.0)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.CacheBackend {
	case "memory", "redis", "badger":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}
	if c.PostsPerPage <= 0 {
		return errors.New("POSTS_PER_PAGE must be positive")
	}
	if c.IndexCacheTTL < 0 {
		return errors.New("INDEX_CACHE_TTL must not be negative")
	}
	switch c.TracingExporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported TRACING_EXPORTER %q", c.TracingExporter)
	}
	if c.TracingSampleRatio < 0 || c.TracingSampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be changed from the default value in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
