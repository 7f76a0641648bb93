package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/subwarden/subwarden/pkg/billing"
)

const maxPortalRequestBytes = 4 * 1024

// Handler provides HTTP endpoints for subscription queries and billing
// portal session creation. Webhook traffic is served directly by the
// provider's WebhookHandler and does not pass through here.
type Handler struct {
	config Config
}

// GetSubscriptions returns the caller's subscriptions as a JSON array of
// normalized records. An upstream record that cannot be normalized fails
// the whole request; the caller never sees a partial list.
func (h *Handler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	customerID := h.config.GetCustomerID(r)
	if customerID == "" {
		h.writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	records, err := h.config.Provider.Subscriptions(r.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrCustomerNotFound):
			h.writeError(w, r, http.StatusNotFound, "customer not found", err)
		case errors.Is(err, billing.ErrProviderAPIError),
			errors.Is(err, billing.ErrUnsupportedStatus),
			errors.Is(err, billing.ErrNoLineItems),
			errors.Is(err, billing.ErrMissingBillingPeriod):
			h.writeError(w, r, http.StatusBadGateway, "billing provider error", err)
		default:
			h.writeError(w, r, http.StatusInternalServerError, "internal server error", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// CreatePortalSession mints a billing portal URL for the caller.
func (h *Handler) CreatePortalSession(w http.ResponseWriter, r *http.Request) {
	customerID := h.config.GetCustomerID(r)
	if customerID == "" {
		h.writeError(w, r, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req PortalSessionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxPortalRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	url, err := h.config.Provider.PortalSession(r.Context(), customerID, req.ReturnURL)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidReturnURL):
			h.writeError(w, r, http.StatusBadRequest, "invalid returnUrl", err)
		case errors.Is(err, billing.ErrCustomerNotFound):
			h.writeError(w, r, http.StatusNotFound, "customer not found", err)
		case errors.Is(err, billing.ErrProviderAPIError):
			h.writeError(w, r, http.StatusBadGateway, "billing provider error", err)
		default:
			h.writeError(w, r, http.StatusInternalServerError, "internal server error", err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, PortalSessionResponse{URL: url})
}

// ProbeProvider reports upstream reachability for readiness checks.
func (h *Handler) ProbeProvider(w http.ResponseWriter, r *http.Request) {
	result, err := h.config.Provider.Probe(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusBadGateway, "billing provider unreachable", err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response already committed; nothing left to do.
		return
	}
}

// writeError logs the underlying error and returns a sanitized message.
// Provider SDK internals never reach the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code int, message string, err error) {
	if err != nil {
		h.config.Logger.Error("request failed",
			billing.Field{Key: "path", Value: r.URL.Path},
			billing.Field{Key: "status", Value: code},
			billing.Field{Key: "error", Value: err.Error()},
		)
	}
	if h.config.OnError != nil && err != nil {
		h.config.OnError(w, r, err)
		return
	}
	h.writeJSON(w, code, ErrorResponse{Error: message})
}
