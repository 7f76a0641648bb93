package stripe

import (
	"context"
	"errors"
	"testing"

	"github.com/subwarden/subwarden/pkg/billing"
)

func TestValidateReturnURL(t *testing.T) {
	valid := []string{
		"https://host/path",
		"https://example.com",
		"http://localhost:3000/account",
	}
	for _, u := range valid {
		if err := validateReturnURL(u); err != nil {
			t.Errorf("Expected %q to be accepted, got %v", u, err)
		}
	}

	invalid := []string{
		"",
		"ftp://example.com/path",
		"javascript:alert(1)",
		"example.com/no-scheme",
		"/relative/path",
		"https://",
		"://bad",
	}
	for _, u := range invalid {
		err := validateReturnURL(u)
		if err == nil {
			t.Errorf("Expected %q to be rejected", u)
			continue
		}
		if !errors.Is(err, billing.ErrInvalidReturnURL) {
			t.Errorf("Expected ErrInvalidReturnURL for %q, got %v", u, err)
		}
	}
}

// Validation runs before any provider call, so an invalid URL fails
// without touching the network.
func TestPortalSession_InvalidReturnURLShortCircuits(t *testing.T) {
	provider := newTestProvider(t)

	_, err := provider.PortalSession(context.Background(), testCustomerID, "ftp://example.com")
	if !errors.Is(err, billing.ErrInvalidReturnURL) {
		t.Errorf("Expected ErrInvalidReturnURL, got %v", err)
	}

	_, err = provider.PortalSession(context.Background(), testCustomerID, "")
	if !errors.Is(err, billing.ErrInvalidReturnURL) {
		t.Errorf("Expected ErrInvalidReturnURL for empty URL, got %v", err)
	}
}

func TestPortalSession_NoCustomer(t *testing.T) {
	provider := newTestProvider(t)

	_, err := provider.PortalSession(context.Background(), "", "https://example.com/account")
	if !errors.Is(err, billing.ErrCustomerNotFound) {
		t.Errorf("Expected ErrCustomerNotFound, got %v", err)
	}
}
