package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://env/auth")
	t.Setenv(EnvSecretKey, "env-secret")
	t.Setenv(EnvHTTPAddress, ":9999")
	t.Setenv(EnvGRPCAddress, "")
	t.Setenv(EnvAccessTokenTTL, "90s")
	t.Setenv(EnvBcryptCost, "11")
	t.Setenv(EnvRevocationPruneInterval, "1h")
	t.Setenv(EnvLogBackend, "zerolog")
	t.Setenv(EnvGinMode, "test")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "postgres://env/auth", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "", cfg.EndpointAddrGRPC)
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.Equal(t, time.Hour, cfg.RevocationPruneInterval)
	assert.Equal(t, "zerolog", cfg.LogBackend)
	assert.Equal(t, "test", cfg.GinMode)
}

func TestParseEnv_Malformed(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv(EnvAccessTokenTTL, "forever")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv(EnvAccessTokenTTL, "")
		t.Setenv(EnvBcryptCost, "high")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
