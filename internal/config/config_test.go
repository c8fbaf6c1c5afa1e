package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 20*time.Minute, cfg.EmailVerifyExpiry)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.AuthRateLimitMax)
	assert.Equal(t, time.Second, cfg.AuthRateLimitWindow)
	assert.Equal(t, 2, cfg.RegisterRateLimitMax)
	assert.Equal(t, 60, cfg.RateLimitMax)
	assert.Equal(t, 720*time.Hour, cfg.LogRetention)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("JWT_EXPIRATION", "15m")
	t.Setenv("ADMIN_EMAILS", "root@example.com,ops@example.com")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15*time.Minute, cfg.JWTExpiration)
	assert.True(t, cfg.IsAdminEmail("ops@example.com"))
	assert.False(t, cfg.IsAdminEmail("ana@example.com"))
	assert.True(t, cfg.SMTPEnabled())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "soon")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", JWTExpiration: 0, EmailVerifyExpiry: time.Minute}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "JWT_EXPIRATION")
	assert.NotContains(t, err.Error(), "DB_PASSWORD")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5433", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
