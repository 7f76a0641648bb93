package stripe

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/subwarden/subwarden/pkg/billing"
)

// PortalSession creates a Stripe Billing Portal session and returns its URL.
// This lets an end customer self-manage their subscription, update payment
// methods, or cancel.
func (p *Provider) PortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	startTime := time.Now()

	if err := validateReturnURL(returnURL); err != nil {
		return "", err
	}

	customerID, err := p.resolveCustomerID(ctx, customerID)
	if err != nil {
		return "", err
	}

	params := &stripe.BillingPortalSessionCreateParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}

	session, err := p.stripeClient.V1BillingPortalSessions.Create(ctx, params)
	if err != nil {
		p.metrics.RecordAPICall(providerName, "/billing_portal/sessions", "error")
		p.metrics.RecordAPICallDuration(providerName, "/billing_portal/sessions", time.Since(startTime))
		return "", fmt.Errorf("%w: failed to create portal session: %v", billing.ErrProviderAPIError, err)
	}

	p.metrics.RecordAPICall(providerName, "/billing_portal/sessions", "success")
	p.metrics.RecordAPICallDuration(providerName, "/billing_portal/sessions", time.Since(startTime))

	p.logger.Info("created billing portal session",
		billing.Field{Key: "customer_id", Value: customerID},
	)

	return session.URL, nil
}

// validateReturnURL requires a well-formed absolute http(s) URL. The portal
// redirects the customer's browser here after they finish, so anything else
// is rejected before the provider is called.
func validateReturnURL(returnURL string) error {
	if returnURL == "" {
		return fmt.Errorf("%w: return URL is empty", billing.ErrInvalidReturnURL)
	}
	u, err := url.Parse(returnURL)
	if err != nil {
		return fmt.Errorf("%w: %v", billing.ErrInvalidReturnURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q is not allowed", billing.ErrInvalidReturnURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: URL is not absolute", billing.ErrInvalidReturnURL)
	}
	return nil
}
