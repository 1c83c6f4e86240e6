package config_test

import (
	"testing"
	"time"

	"github.com/alkime/scope/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.5:5000", cfg.Addr)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.APIListen)
	assert.Equal(t, "scope.log", cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCOPE_ADDR", "10.0.0.2:5000")
	t.Setenv("SCOPE_TICK_INTERVAL", "250ms")
	t.Setenv("SCOPE_API_LISTEN", "127.0.0.1:8090")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.2:5000", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "127.0.0.1:8090", cfg.APIListen)
}

func TestLoadConfig_RejectsBadTick(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCOPE_TICK_INTERVAL", "0s")

	_, err := config.LoadConfig()
	require.Error(t, err)
}

func TestBuildCSP(t *testing.T) {
	t.Parallel()

	assert.Contains(t, config.BuildCSP("strict"), "default-src 'none'")
	assert.Contains(t, config.BuildCSP("relaxed"), "default-src 'self'")
}
