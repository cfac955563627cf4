package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvDatabaseURL             = "DATABASE_URL"
	EnvSecretKey               = "SECRET_KEY"
	EnvHTTPAddress             = "HTTP_ADDRESS"
	EnvGRPCAddress             = "GRPC_ADDRESS"
	EnvAccessTokenTTL          = "ACCESS_TOKEN_TTL"
	EnvBcryptCost              = "BCRYPT_COST"
	EnvRevocationPruneInterval = "REVOCATION_PRUNE_INTERVAL"
	EnvLogBackend              = "LOG_BACKEND"
	EnvGinMode                 = "GIN_MODE"
)

// parseEnv overlays environment variables onto config. A .env file in the
// working directory is loaded first if present; variables already set in the
// process environment win over it. Malformed numeric or duration values panic.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	lookupString(EnvDatabaseURL, &config.DatabaseDSN)
	lookupString(EnvSecretKey, &config.SecretKey)
	lookupString(EnvHTTPAddress, &config.EndpointAddrHTTP)
	if v, ok := os.LookupEnv(EnvGRPCAddress); ok {
		config.EndpointAddrGRPC = v
	}
	lookupDuration(EnvAccessTokenTTL, &config.AccessTokenValidityDuration)
	lookupDuration(EnvRevocationPruneInterval, &config.RevocationPruneInterval)
	if v, ok := os.LookupEnv(EnvBcryptCost); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvBcryptCost, err))
		}
		config.BcryptCost = n
	}
	lookupString(EnvLogBackend, &config.LogBackend)
	lookupString(EnvGinMode, &config.GinMode)
}

func lookupString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = d
}
