package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads every field", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http":              "0.0.0.0:8081",
			"endpoint_addr_grpc":              "0.0.0.0:9091",
			"database_dsn":                    "postgres://db",
			"secret_key":                      "a2V5",
			"access_token_validity_duration":  "1m",
			"refresh_token_validity_duration": "3h",
			"password_hash_cost":              12,
			"log_backend":                     "zerolog",
			"log_level":                       "warn",
			"shutdown_timeout":                "2s",
		})

		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, &Config{
			EndpointAddrHTTP:             "0.0.0.0:8081",
			EndpointAddrGRPC:             "0.0.0.0:9091",
			DatabaseDSN:                  "postgres://db",
			SecretKey:                    "a2V5",
			AccessTokenValidityDuration:  time.Minute,
			RefreshTokenValidityDuration: 3 * time.Hour,
			PasswordHashCost:             12,
			LogBackend:                   "zerolog",
			LogLevel:                     "warn",
			ShutdownTimeout:              2 * time.Second,
		}, cfg)
	})

	t.Run("absent keys keep current values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"log_level": "error"})

		var cfg Config
		cfg.LoadDefaults()
		require.NoError(t, parseJson(&cfg, []string{"-c", path}))

		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	})

	t.Run("no config flag is a no-op", func(t *testing.T) {
		cfg := &Config{LogLevel: "info"}
		require.NoError(t, parseJson(cfg, []string{"-a", ":1"}))
		assert.Equal(t, &Config{LogLevel: "info"}, cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "absent.json")})
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-c", bad})
		require.Error(t, err)
	})
}
