package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridvolt/gpucloud-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8080/api/v1", cfg.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.Timeout)
	require.False(t, cfg.Debug)
	require.Empty(t, cfg.RedisAddr)
	require.True(t, strings.HasSuffix(cfg.TokenFile, ".gpucloud/tokens.json"))
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GPUCLOUD_API_BASE_URL", "https://console.example.com/api/v1")
	t.Setenv("GPUCLOUD_TIMEOUT", "10s")
	t.Setenv("GPUCLOUD_DEBUG", "true")
	t.Setenv("GPUCLOUD_TOKEN_FILE", "/var/lib/gpucloud/tokens.json")
	t.Setenv("GPUCLOUD_REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "https://console.example.com/api/v1", cfg.APIBaseURL)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.True(t, cfg.Debug)
	require.Equal(t, "/var/lib/gpucloud/tokens.json", cfg.TokenFile)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
}
