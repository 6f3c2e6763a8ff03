package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenops/carbon-management/internal/core/domain"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, int64(20), cfg.RateLimit.Max)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.False(t, cfg.IsProduction())

	roles := cfg.Roles()
	assert.True(t, roles.Contains(domain.RoleUser))
	assert.False(t, roles.Contains(domain.RoleAdmin), "admin is never self-assigned by default")
	assert.False(t, roles.Contains(domain.RoleReviewer))
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"APP_ENV":            "production",
		"PORT":               "8081",
		"JWT_EXPIRES_IN":     "2h",
		"REGISTRATION_ROLES": "user,reviewer",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:8081", cfg.Addr())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiresIn)
	assert.True(t, cfg.Roles().Contains(domain.RoleReviewer))
	assert.False(t, cfg.Roles().Contains(domain.RoleAdmin))
}

func TestLoadFrom_MissingSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_UnknownRegistrationRole(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"REGISTRATION_ROLES": "user,root",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"root"`)
}

func TestValidate_UnknownEnv(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"APP_ENV":    "staging",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
}
