package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/apu-inti/guardian/pkg/i18n"
)

// Storage backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port           string        `env:"PORT"                     envDefault:"8080"`
	Environment    string        `env:"ENVIRONMENT"              envDefault:"development"`
	LogLevelName   string        `env:"LOG_LEVEL"                envDefault:"info"`
	StorageBackend string        `env:"STORAGE_BACKEND"          envDefault:"memory"`
	RedisURL       string        `env:"REDIS_URL"                envDefault:"redis://localhost:6379/0"`
	SessionTTL     time.Duration `env:"SESSION_TTL"              envDefault:"1h"`
	DefaultLang    string        `env:"DEFAULT_LANGUAGE"         envDefault:"es"`
	QuizDelay      time.Duration `env:"QUIZ_RETURN_DELAY"        envDefault:"4s"`
	FrameInterval  time.Duration `env:"ANIMATION_FRAME_INTERVAL" envDefault:"16ms"`
	RandomSeed     uint64        `env:"RANDOM_SEED"              envDefault:"0"`

	LogLevel slog.Level `env:"-"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the parser cannot.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.StorageBackend)
	}
	if _, err := i18n.Parse(c.DefaultLang); err != nil {
		return fmt.Errorf("DEFAULT_LANGUAGE: %w", err)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.QuizDelay < 0 {
		return fmt.Errorf("QUIZ_RETURN_DELAY must not be negative")
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("ANIMATION_FRAME_INTERVAL must be positive")
	}
	return nil
}

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
		return slog.LevelInfo
	}
}
