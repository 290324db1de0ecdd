package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockWindow)
	assert.Equal(t, 4, cfg.Order.AuditWorkers)
	assert.False(t, cfg.Order.StrictTransitions)
	assert.Equal(t, "storefront", cfg.Mongo.Database)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"TOKEN_TTL":          "1h",
		"STRICT_TRANSITIONS": "true",
		"REDIS_DB":           "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Order.StrictTransitions)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromRequiresSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadFromRejectsBadDuration(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"TOKEN_TTL":  "soon",
	}))
	assert.Error(t, err)
}
