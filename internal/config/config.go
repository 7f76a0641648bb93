// Package config loads and validates server configuration from the
// environment. All required values are checked once at startup so a
// misconfigured deployment fails before serving traffic.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting the server binary needs. Secrets are read at
// startup and treated as immutable for the lifetime of the process.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `validate:"required"`

	// StripeSecretKey authenticates outbound Stripe API calls.
	StripeSecretKey string `validate:"required"`

	// StripeWebhookSecret verifies inbound webhook signatures.
	StripeWebhookSecret string `validate:"required"`

	// StripeCustomerID is the default billing customer for callers that
	// carry no customer identity of their own.
	StripeCustomerID string `validate:"required"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string `validate:"required,oneof=trace debug info warn error"`

	// MetricsNamespace prefixes all Prometheus metric names.
	MetricsNamespace string `validate:"required"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present (local development); real environments
// set the variables directly.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                getEnv("ADDR", ":8080"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCustomerID:    os.Getenv("STRIPE_CUSTOMER_ID"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		MetricsNamespace:    getEnv("METRICS_NAMESPACE", "subwarden"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
