// Package stripe implements the billing.Provider interface against the
// Stripe API: webhook ingestion, subscription normalization, and billing
// portal session creation.
package stripe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/subwarden/subwarden/pkg/billing"
	"github.com/subwarden/subwarden/pkg/billing/internal"
)

const (
	providerName             = "stripe"
	defaultHTTPTimeout       = 10 * time.Second
	defaultRateLimitWindow   = time.Minute
	defaultRateLimitRequests = 100
	maxWebhookBodyBytes      = 256 * 1024

	defaultCurrency = "usd"
	unknownPlanName = "Unknown Plan"

	// isoMillis matches the upstream convention for period timestamps:
	// UTC with millisecond precision and a literal Z suffix.
	isoMillis = "2006-01-02T15:04:05.000Z"
)

// Config extends billing.Config with Stripe-specific options
type Config struct {
	billing.Config // Base config (Logger, Metrics, CustomerIDResolver, etc.)

	// StripeAPIKey authenticates outbound API calls. Required.
	StripeAPIKey string

	// StripeWebhookSecret verifies inbound webhook signatures. Required
	// when the webhook handler is mounted.
	StripeWebhookSecret string
}

// Provider implements the billing.Provider interface for Stripe
type Provider struct {
	config        Config
	httpClient    *http.Client
	rateLimiter   *internal.RateLimiter
	webhookSecret []byte
	apiKey        string
	stripeClient  *stripe.Client
	logger        billing.Logger
	metrics       billing.Metrics
}

// NewProvider creates a new Stripe billing provider. Configuration is
// validated here so a misconfigured deployment fails at startup rather
// than on the first request.
func NewProvider(config Config) (*Provider, error) {
	apiKey := strings.TrimSpace(config.StripeAPIKey)
	if apiKey == "" {
		return nil, billing.ErrProviderNotConfigured
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: defaultHTTPTimeout,
		}
	}

	stripeClient := stripe.NewClient(apiKey)

	webhookSecret := []byte(strings.TrimSpace(config.StripeWebhookSecret))

	logger := config.Logger
	if logger == nil {
		logger = &billing.NoopLogger{}
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &billing.NoopMetrics{}
	}

	return &Provider{
		config:        config,
		httpClient:    httpClient,
		rateLimiter:   internal.NewRateLimiter(defaultRateLimitRequests, defaultRateLimitWindow),
		webhookSecret: webhookSecret,
		apiKey:        apiKey,
		stripeClient:  stripeClient,
		logger:        logger,
		metrics:       metrics,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return providerName
}

// WebhookHandler returns the HTTP handler for Stripe webhooks
func (p *Provider) WebhookHandler() http.Handler {
	handler := http.HandlerFunc(p.handleWebhook)
	// Wrap with rate limiting
	return p.rateLimiter.Middleware(handler)
}

// resolveCustomerID falls back to the configured resolver when the caller
// did not supply a customer identity.
func (p *Provider) resolveCustomerID(ctx context.Context, customerID string) (string, error) {
	if customerID != "" {
		return customerID, nil
	}
	if p.config.CustomerIDResolver != nil {
		return p.config.CustomerIDResolver(ctx)
	}
	return "", billing.ErrCustomerNotFound
}

func formatEpochSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(isoMillis)
}
