package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both "15m"
// style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	PasswordHashCost             int            `json:"password_hash_cost"`
	LogBackend                   string         `json:"log_backend"`
	LogLevel                     string         `json:"log_level"`
	ShutdownTimeout              timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays config with the JSON file named by -c/-config in args.
// Keys absent from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{
		EndpointAddrHTTP:             config.EndpointAddrHTTP,
		EndpointAddrGRPC:             config.EndpointAddrGRPC,
		DatabaseDSN:                  config.DatabaseDSN,
		SecretKey:                    config.SecretKey,
		AccessTokenValidityDuration:  timex.Duration{Duration: config.AccessTokenValidityDuration},
		RefreshTokenValidityDuration: timex.Duration{Duration: config.RefreshTokenValidityDuration},
		PasswordHashCost:             config.PasswordHashCost,
		LogBackend:                   config.LogBackend,
		LogLevel:                     config.LogLevel,
		ShutdownTimeout:              timex.Duration{Duration: config.ShutdownTimeout},
	}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	config.PasswordHashCost = c.PasswordHashCost
	config.LogBackend = c.LogBackend
	config.LogLevel = c.LogLevel
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	return nil
}
