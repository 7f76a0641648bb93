package api

import (
	"fmt"
	"net/http"

	"github.com/subwarden/subwarden/pkg/billing"
)

// Config holds configuration for the subscription API handler
type Config struct {
	// Provider is the billing provider instance (required)
	Provider billing.Provider

	// GetCustomerID extracts the caller's billing customer ID from the
	// HTTP request (required). Returning "" means the caller is not
	// authenticated and the request is rejected with 401.
	GetCustomerID func(*http.Request) string

	// OnError handles errors (auth, upstream, internal, etc.)
	// If nil, uses default error handling
	OnError func(http.ResponseWriter, *http.Request, error)

	// Logger receives structured log lines.
	// If nil, logging is silently dropped (no-op).
	Logger billing.Logger
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Provider == nil {
		return fmt.Errorf("provider is required")
	}
	if c.GetCustomerID == nil {
		return fmt.Errorf("getCustomerID is required")
	}
	return nil
}

// NewHandler creates a new subscription API handler with the given configuration
func NewHandler(config Config) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Logger == nil {
		config.Logger = &billing.NoopLogger{}
	}
	return &Handler{
		config: config,
	}, nil
}

// Helper functions for common customer ID extraction patterns

// FromHeader returns a GetCustomerID function that reads a header
func FromHeader(headerName string) func(*http.Request) string {
	return func(r *http.Request) string {
		return r.Header.Get(headerName)
	}
}

// FromContext returns a GetCustomerID function that reads the request context
func FromContext(key interface{}) func(*http.Request) string {
	return func(r *http.Request) string {
		if customerID, ok := r.Context().Value(key).(string); ok {
			return customerID
		}
		return ""
	}
}

// Static returns a GetCustomerID function that always yields the given ID.
// Useful for single-tenant deployments where the customer is fixed by
// configuration.
func Static(customerID string) func(*http.Request) string {
	return func(*http.Request) string {
		return customerID
	}
}
