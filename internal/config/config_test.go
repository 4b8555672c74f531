package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ApiServicePort)
	assert.Equal(t, "/api", cfg.ApiPrefix)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, int64(86400), cfg.TokenExpiration)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("API_SERVICE_PORT", "9090")
	t.Setenv("TOKEN_EXPIRATION", "3600")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ApiServicePort)
	assert.Equal(t, int64(3600), cfg.TokenExpiration)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoadConfig_InvalidIntegerFallsBack(t *testing.T) {
	t.Setenv("POSTGRESQL_PORT", "invalid")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, int64(5432), cfg.PostgreSQLPort)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "7070"
  prefix: v1
database:
  driver: sqlite
  sqlite_path: /tmp/market.db
auth:
  token_expiration: 120
  login_rate_limit: 3
redis:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOGIN_RATE_LIMIT", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.ApiServicePort)
	assert.Equal(t, "/v1", cfg.ApiPrefix)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/market.db", cfg.SQLitePath)
	assert.Equal(t, int64(120), cfg.TokenExpiration)
	assert.False(t, cfg.RedisEnabled)
	// Environment wins over the file
	assert.Equal(t, int64(7), cfg.LoginRateLimit)
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"missing file", map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"non-positive expiration", map[string]string{"TOKEN_EXPIRATION": "0"}},
		{"default secret in production", map[string]string{"APP_ENV": "production"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{
		PostgreSQLHost:     "localhost",
		PostgreSQLPort:     5433,
		PostgreSQLUser:     "u",
		PostgreSQLPassword: "p",
		PostgreSQLDatabase: "d",
		PostgreSQLSSLMode:  "require",
	}

	assert.Equal(t, "host=localhost user=u password=p dbname=d port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
