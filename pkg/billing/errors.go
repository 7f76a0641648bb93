package billing

import "errors"

var (
	// ErrProviderNotConfigured is returned when a provider is missing required configuration
	ErrProviderNotConfigured = errors.New("billing provider not configured")

	// ErrInvalidWebhookSignature is returned when webhook signature validation fails
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

	// ErrInvalidWebhookPayload is returned when a webhook payload cannot be parsed
	ErrInvalidWebhookPayload = errors.New("invalid webhook payload")

	// ErrProviderAPIError is returned when the provider's API returns an error
	ErrProviderAPIError = errors.New("billing provider API error")

	// ErrCustomerNotFound is returned when a customer cannot be found in the provider
	ErrCustomerNotFound = errors.New("customer not found in billing provider")

	// ErrUnsupportedStatus is returned when an upstream subscription status is
	// outside the closed SubscriptionStatus set
	ErrUnsupportedStatus = errors.New("unsupported subscription status")

	// ErrNoLineItems is returned when an upstream subscription carries no priced items
	ErrNoLineItems = errors.New("subscription has no line items")

	// ErrMissingBillingPeriod is returned when an upstream subscription is missing
	// its current period start or end
	ErrMissingBillingPeriod = errors.New("subscription missing billing period")

	// ErrInvalidReturnURL is returned for portal return URLs that are empty,
	// relative, or not http(s)
	ErrInvalidReturnURL = errors.New("invalid return URL")
)
