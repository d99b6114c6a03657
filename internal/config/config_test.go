package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Server.CORSAllowCredentials)
	assert.True(t, cfg.Server.AllowsAllOrigins())
	assert.False(t, cfg.Server.RateLimit.Enabled)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.GetLogLevel())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SIMULACAO_PRIMARY__ENV", "production")
	t.Setenv("SIMULACAO_SERVER__PORT", "9090")
	t.Setenv("SIMULACAO_SERVER__READ_TIMEOUT", "5")
	t.Setenv("SIMULACAO_SERVER__CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	t.Setenv("SIMULACAO_SERVER__RATE_LIMIT__ENABLED", "true")
	t.Setenv("SIMULACAO_SERVER__RATE_LIMIT__EXPIRES_IN", "90s")
	t.Setenv("SIMULACAO_OBSERVABILITY__LOGGING__LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Server.AllowsAllOrigins())
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Server.RateLimit.ExpiresIn)

	assert.Equal(t, "production", cfg.Observability.Environment)
	assert.True(t, cfg.Observability.IsProduction())
	assert.Equal(t, "debug", cfg.Observability.GetLogLevel())
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("SIMULACAO_OBSERVABILITY__LOGGING__LEVEL", "verbose")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logging level")
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("SIMULACAO_SERVER__IDLE_TIMEOUT", "-1")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.port", envKey("SIMULACAO_SERVER__PORT"))
	assert.Equal(t, "server.rate_limit.expires_in", envKey("SIMULACAO_SERVER__RATE_LIMIT__EXPIRES_IN"))
	assert.Equal(t, "primary.env", envKey("SIMULACAO_PRIMARY__ENV"))
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("calculator"))
	assert.False(t, cfg.HealthCheckEnabled("database"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("calculator"))
}
