package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, MemoryDSN, c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Equal(t, float64(20), c.RateLimitRPS)
	assert.Equal(t, 40, c.RateLimitBurst)
	assert.True(t, c.SeedDemoData)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
	assert.True(t, c.UseMemory())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	t.Setenv("TAXDESK_CONFIG", "")
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, MemoryDSN, c.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestUseMemory(t *testing.T) {
	assert.True(t, (&Config{}).UseMemory())
	assert.True(t, (&Config{DatabaseDSN: "memory"}).UseMemory())
	assert.False(t, (&Config{DatabaseDSN: "postgres://x"}).UseMemory())
}
