package billing

import (
	"context"
	"net/http"
)

// Config defines the standard configuration all providers should accept
type Config struct {
	// WebhookSecret is the shared secret used to verify incoming webhook
	// requests. Required for providers that receive webhooks.
	WebhookSecret string

	// APIKey is used for outbound API calls to the billing provider.
	APIKey string

	// CustomerIDResolver optionally resolves the default customer identity
	// when a caller does not carry one (single-tenant deployments resolve
	// it from configuration).
	CustomerIDResolver func(context.Context) (string, error)

	// HTTPClient is an optional HTTP client for API calls.
	// If nil, a default client with 10s timeout will be used.
	HTTPClient *http.Client

	// Logger receives structured log lines from the provider.
	// If nil, logging is silently dropped (no-op).
	Logger Logger

	// Metrics is an optional metrics collector for provider operations.
	// If nil, metrics will be silently ignored (no-op).
	// Use billing/metrics/prometheus.NewMetrics for Prometheus metrics.
	Metrics Metrics
}
