package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations use timex.Duration so both "15m" and integer nanoseconds work.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string        `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	RevocationPruneInterval     timex.Duration `json:"revocation_prune_interval"`
	LogBackend                  string         `json:"log_backend"`
	GinMode                     string         `json:"gin_mode"`
}

// parseJson overlays values from the file named by -c / -config onto config.
// Only keys present with a non-zero value replace the current setting;
// endpoint_addr_grpc may be set to "" explicitly to disable the health server.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RevocationPruneInterval.Duration > 0 {
		config.RevocationPruneInterval = c.RevocationPruneInterval.Duration
	}
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.GinMode, c.GinMode)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
