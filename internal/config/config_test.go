package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecretKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "us-east-1", cfg.DynamoDB.Region)
	assert.Equal(t, "EkartOTP", cfg.DynamoDB.TableName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Endpoint)
	assert.Equal(t, 600*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 10*time.Minute, cfg.OTP.Expiry)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecretKey)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("OTP_EXPIRY", "5m")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5*time.Minute, cfg.OTP.Expiry)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadMissingSecretKey(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadShortSecretKey(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestMalformedValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecretKey)
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 600*time.Minute, cfg.JWT.AccessExpiry)
}
