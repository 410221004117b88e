package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/config"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
)

func TestAppConfigDefaults(t *testing.T) {
	cfg, err := config.Load[appConfig](config.WithEnvironment(map[string]string{
		"AUTH_JWT_SIGNING_KEY": "0123456789abcdef0123456789abcdef",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.PG.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Email.PostmarkEnabled())
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "taskflask-api", cfg.Auth.Audience)
	assert.Equal(t, 256, cfg.API.QRCodeSize)
	assert.Empty(t, cfg.API.SessionCookie)
	assert.Equal(t, validator.DefaultPasswordStrength(), cfg.Auth.passwordStrength())
}

func TestAppConfigOverrides(t *testing.T) {
	cfg, err := config.Load[appConfig](config.WithEnvironment(map[string]string{
		"AUTH_JWT_SIGNING_KEY":      "0123456789abcdef0123456789abcdef",
		"PG_CONN_URL":               "postgres://localhost/taskflask",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"HTTP_ADDR":                 ":9090",
		"AUTH_SESSION_TTL":          "1h",
		"API_JOIN_URL":              "https://app.example.com/join",
		"API_SESSION_COOKIE":        "tf_session",
		"AUTH_PASSWORD_MIN_LENGTH":  "12",
		"AUTH_PASSWORD_MIN_CLASSES": "3",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.PG.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "https://app.example.com/join", cfg.API.JoinURL)
	assert.Equal(t, "tf_session", cfg.API.SessionCookie)
	assert.Equal(t, validator.PasswordStrengthConfig{MinLength: 12, MaxLength: 72, MinCharClasses: 3}, cfg.Auth.passwordStrength())
}

func TestAppConfigRequiresSigningKey(t *testing.T) {
	_, err := config.Load[appConfig](config.WithEnvironment(map[string]string{}))
	require.ErrorIs(t, err, config.ErrParsingConfig)
}
