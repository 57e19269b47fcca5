package config_test

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DKiloDesigns/CreatorFlow-sub004/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_GROUP", "cf-admins")
	t.Setenv("USER_GROUP", "cf-users")
	t.Setenv("AUTH_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestAppConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.Equal(t, config.AuthModeOAuth, cfg.Auth.Mode)
	assert.Equal(t, "creatorflow", cfg.Auth.TokenIssuer)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
}

func TestAppConfig_RequiredFields(t *testing.T) {
	t.Setenv("ADMIN_GROUP", "cf-admins")
	t.Setenv("USER_GROUP", "cf-users")
	// AUTH_TOKEN_SECRET deliberately unset.

	var cfg config.AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_TOKEN_SECRET")
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m config.AuthMode
	require.NoError(t, m.UnmarshalText([]byte("MOCK")))
	assert.Equal(t, config.AuthModeMock, m)

	err := m.UnmarshalText([]byte("ldap"))
	require.Error(t, err)
}

func TestAuthConfig_SanitizeSessionTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_SESSION_TTL", "5s")

	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
}

func TestDevAuthConfig_Groups(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("DEV_AUTH_GROUPS", "cf-admins;cf-users")

	var cfg config.AppConfig
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, config.AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, []string{"cf-admins", "cf-users"}, cfg.Auth.DevAuth.Groups)
}
