package config_test

import (
	"testing"
	"time"

	"github.com/secureflow/payment-gateway/internal/config"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":9090")
	t.Setenv("HTTP_READ_TIMEOUT", "45s")
	t.Setenv("HTTP_WRITE_TIMEOUT", "45s")
	t.Setenv("HTTP_IDLE_TIMEOUT", "90s")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "15s")
	t.Setenv("JWT_SECRET", "topsecret")
	t.Setenv("JWT_TTL", "20m")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "gateway")
	t.Setenv("DB_PASSWORD", "hunter2")
	t.Setenv("DB_NAME", "payments")
	t.Setenv("PAYPAL_BASE_URL", "https://api.paypal.com")
	t.Setenv("PAYPAL_CLIENT_ID", "client-id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "client-secret")
	t.Setenv("PAYPAL_TIMEOUT", "10s")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "redispass")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("IDEMPOTENCY_TTL", "12h")

	cfg := config.FromEnv()

	require.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	require.Equal(t, 45*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	require.Equal(t, 90*time.Second, cfg.HTTP.IdleTimeout)
	require.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, "topsecret", cfg.JWT.Secret)
	require.Equal(t, 20*time.Minute, cfg.JWT.TTL)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "5433", cfg.DB.Port)
	require.Equal(t, "gateway", cfg.DB.User)
	require.Equal(t, "hunter2", cfg.DB.Password)
	require.Equal(t, "payments", cfg.DB.Name)
	require.Equal(t, "https://api.paypal.com", cfg.PayPal.BaseURL)
	require.Equal(t, "client-id", cfg.PayPal.ClientID)
	require.Equal(t, "client-secret", cfg.PayPal.ClientSecret)
	require.Equal(t, 10*time.Second, cfg.PayPal.Timeout)
	require.True(t, cfg.Redis.Enabled)
	require.Equal(t, "redis", cfg.Redis.Host)
	require.Equal(t, "6380", cfg.Redis.Port)
	require.Equal(t, "redispass", cfg.Redis.Password)
	require.Equal(t, 2, cfg.Redis.DB)
	require.Equal(t, 12*time.Hour, cfg.Redis.TTL)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "topsecret")

	cfg := config.FromEnv()

	require.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	require.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	require.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	require.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, time.Hour, cfg.JWT.TTL)
	require.Equal(t, "localhost", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "payment_gateway", cfg.DB.Name)
	require.Equal(t, "https://api.sandbox.paypal.com", cfg.PayPal.BaseURL)
	require.Empty(t, cfg.PayPal.ClientID)
	require.Empty(t, cfg.PayPal.ClientSecret)
	require.Equal(t, 30*time.Second, cfg.PayPal.Timeout)
	require.False(t, cfg.Redis.Enabled)
	require.Equal(t, "localhost", cfg.Redis.Host)
	require.Equal(t, "6379", cfg.Redis.Port)
	require.Equal(t, 0, cfg.Redis.DB)
	require.Equal(t, 24*time.Hour, cfg.Redis.TTL)
}
