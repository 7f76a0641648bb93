package billing

import (
	"context"
	"net/http"
)

// Provider is the generic interface any billing backend must implement.
// Keeping the surface provider-neutral lets the API layer swap Stripe for
// another backend with zero logic changes.
type Provider interface {
	// Name returns the provider name (e.g., "stripe")
	Name() string

	// WebhookHandler returns the HTTP handler that processes real-time events.
	// The implementation handles validation, signature verification, parsing,
	// and event classification internally.
	WebhookHandler() http.Handler

	// Subscriptions lists the customer's subscriptions, normalized into
	// SubscriptionRecords. A single unmappable record fails the whole batch.
	Subscriptions(ctx context.Context, customerID string) ([]SubscriptionRecord, error)

	// PortalSession mints a provider-hosted billing portal URL bound to the
	// customer. returnURL must be an absolute http(s) URL.
	PortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// Probe performs a cheap read-only call against the provider to verify
	// credentials and connectivity.
	Probe(ctx context.Context) (*ProbeResult, error)
}
