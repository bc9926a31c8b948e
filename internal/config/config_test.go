package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"HTTP_ADDR", "STORAGE", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
	"POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE", "JWT_SECRET",
	"ADMIN_TOKEN_TTL", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key so Load falls back to defaults. godotenv never
// overrides variables already present, so blank values also shadow any .env.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range []string{"POSTGRES_USER", "STORAGE", "ADMIN_TOKEN_TTL"} {
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "POSTGRES_USER=polls\nSTORAGE=memory\nADMIN_TOKEN_TTL=90m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("POSTGRES_USER")
		os.Unsetenv("STORAGE")
		os.Unsetenv("ADMIN_TOKEN_TTL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "polls", cfg.Postgres.User)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 90*time.Minute, cfg.AdminTokenTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORAGE", "sqlite"},
		{"ADMIN_TOKEN_TTL", "soon"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestConnString(t *testing.T) {
	p := Postgres{Host: "db", Port: "5432", User: "poll", Password: "p@ss", DB: "polls", SSLMode: "disable"}

	assert.Equal(t, "postgres://poll:p%40ss@db:5432/polls?sslmode=disable", p.ConnString())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}
