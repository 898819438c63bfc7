package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TOURS_AUTH_JWT_SECRET", "an-environment-secret-of-sufficient-length")
	t.Setenv("TOURS_SERVER_PORT", "9090")
	t.Setenv("TOURS_DATABASE_NAME", "tours_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "tours_test", cfg.Database.Name)
	assert.Equal(t, "an-environment-secret-of-sufficient-length", cfg.Auth.JWTSecret)

	// Defaults fill everything the environment leaves out.
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, "jwt", cfg.Auth.CookieName)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("TOURS_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("TOURS_AUTH_JWT_SECRET", "an-environment-secret-of-sufficient-length")
	t.Setenv("TOURS_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
