package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "es", cfg.DefaultLang)
	assert.Equal(t, 4*time.Second, cfg.QuizDelay)
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval)
	assert.Zero(t, cfg.RandomSeed)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":              "9000",
		"LOG_LEVEL":         "WARNING",
		"STORAGE_BACKEND":   "redis",
		"SESSION_TTL":       "30m",
		"DEFAULT_LANGUAGE":  "en",
		"QUIZ_RETURN_DELAY": "0s",
		"RANDOM_SEED":       "42",
	})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "en", cfg.DefaultLang)
	assert.Zero(t, cfg.QuizDelay)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "postgres"}},
		{"unsupported language", map[string]string{"DEFAULT_LANGUAGE": "fr"}},
		{"bad duration", map[string]string{"SESSION_TTL": "soon"}},
		{"zero frame interval", map[string]string{"ANIMATION_FRAME_INTERVAL": "0s"}},
		{"negative delay", map[string]string{"QUIZ_RETURN_DELAY": "-1s"}},
		{"bad seed", map[string]string{"RANDOM_SEED": "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
