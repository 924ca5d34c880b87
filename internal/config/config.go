package config

import (
	"time"

	"github.com/secureflow/payment-gateway/internal/env"
)

type Config struct {
	HTTP   httpConfig
	JWT    jwtConfig
	DB     dbConfig
	PayPal paypalConfig
	Redis  redisConfig
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type jwtConfig struct {
	Secret string
	TTL    time.Duration
}

type dbConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type paypalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type redisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: jwtConfig{
			Secret: env.RequireString("JWT_SECRET"),
			TTL:    env.Duration("JWT_TTL", time.Hour),
		},
		DB: dbConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "password"),
			Name:     env.String("DB_NAME", "payment_gateway"),
		},
		PayPal: paypalConfig{
			BaseURL: env.String("PAYPAL_BASE_URL", "https://api.sandbox.paypal.com"),
			// Blank credentials are caught by the provider client on the
			// first token fetch, not at startup.
			ClientID:     env.String("PAYPAL_CLIENT_ID", ""),
			ClientSecret: env.String("PAYPAL_CLIENT_SECRET", ""),
			Timeout:      env.Duration("PAYPAL_TIMEOUT", 30*time.Second),
		},
		Redis: redisConfig{
			Enabled:  env.Bool("REDIS_ENABLED", false),
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
			TTL:      env.Duration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
	}
}
