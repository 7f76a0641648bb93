package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/subwarden/subwarden/pkg/billing"
	"github.com/subwarden/subwarden/pkg/billing/internal"
)

// handleWebhook processes incoming Stripe webhook events.
//
// Checks run fail-closed in a fixed order: body, configuration, signature
// header, signature verification. Verifier error detail is logged but never
// echoed back to the caller.
func (p *Provider) handleWebhook(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	setSecurityHeaders(w)

	if r.Method != http.MethodPost {
		internal.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := internal.ReadBodyStrict(w, r, maxWebhookBodyBytes)
	if err != nil {
		if errors.Is(err, internal.ErrPayloadTooLarge) {
			internal.WriteError(w, http.StatusRequestEntityTooLarge, "payload too large")
			p.metrics.RecordWebhookError(providerName, "payload_too_large")
			return
		}
		internal.WriteError(w, http.StatusBadRequest, "Request body is required")
		p.metrics.RecordWebhookError(providerName, "empty_body")
		return
	}

	// Deployment fault, not caller error: respond 500, not 400.
	if p.apiKey == "" || len(p.webhookSecret) == 0 {
		internal.WriteError(w, http.StatusInternalServerError, "Server configuration error")
		p.metrics.RecordWebhookError(providerName, "not_configured")
		return
	}

	sigs := r.Header.Values("Stripe-Signature")
	if len(sigs) != 1 || sigs[0] == "" {
		internal.WriteError(w, http.StatusBadRequest, "Missing or invalid stripe-signature header")
		p.metrics.RecordWebhookError(providerName, "missing_signature")
		return
	}

	event, err := stripe.ConstructEvent(body, sigs[0], string(p.webhookSecret))
	if err != nil {
		// Potentially an attack: log the verifier detail prominently,
		// return only a generic message.
		p.logger.Error("webhook signature verification failed",
			billing.Field{Key: "error", Value: err.Error()},
			billing.Field{Key: "remote_ip", Value: internal.GetClientIP(r)},
		)
		internal.WriteError(w, http.StatusBadRequest, "Invalid webhook signature")
		p.metrics.RecordWebhookError(providerName, "auth_failed")
		return
	}

	eventType := string(event.Type)

	if kind, ok := billing.ParseSubscriptionEventKind(eventType); ok {
		if err := p.classifySubscriptionEvent(&event, kind); err != nil {
			p.logger.Error("subscription event processing failed",
				billing.Field{Key: "event_type", Value: eventType},
				billing.Field{Key: "error", Value: err.Error()},
			)
			internal.WriteError(w, http.StatusInternalServerError, "Internal server error")
			p.metrics.RecordWebhookEvent(providerName, eventType, "error")
			p.metrics.RecordWebhookError(providerName, "processing_error")
			p.metrics.RecordWebhookProcessingDuration(providerName, eventType, time.Since(startTime))
			return
		}
		p.metrics.RecordWebhookEvent(providerName, eventType, "success")
	} else {
		p.logger.Info("received unhandled event type",
			billing.Field{Key: "event_type", Value: eventType},
		)
		p.metrics.RecordWebhookEvent(providerName, eventType, "ignored")
	}

	// Always acknowledge verified events, even when the action was a no-op,
	// so the provider stops redelivering.
	_ = internal.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
	p.metrics.RecordWebhookProcessingDuration(providerName, eventType, time.Since(startTime))
}

// classifySubscriptionEvent dispatches a customer.subscription.* event.
// The snapshot must carry a subscription id and a customer reference;
// without them the event cannot be attributed and processing aborts.
func (p *Provider) classifySubscriptionEvent(event *stripe.Event, kind billing.SubscriptionEventKind) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("%w: %v", billing.ErrInvalidWebhookPayload, err)
	}

	if sub.ID == "" {
		return fmt.Errorf("%w: subscription is missing id", billing.ErrInvalidWebhookPayload)
	}
	if sub.Customer == nil || sub.Customer.ID == "" {
		return fmt.Errorf("%w: subscription %s is missing customer", billing.ErrInvalidWebhookPayload, sub.ID)
	}

	fields := []billing.Field{
		{Key: "subscription_id", Value: sub.ID},
		{Key: "customer_id", Value: sub.Customer.ID},
	}

	switch kind {
	case billing.EventKindCreated:
		p.logger.Info("subscription created", fields...)
	case billing.EventKindDeleted:
		p.logger.Info("subscription deleted", fields...)
	case billing.EventKindPaused:
		p.logger.Info("subscription paused", fields...)
	case billing.EventKindResumed:
		p.logger.Info("subscription resumed", fields...)
	case billing.EventKindTrialWillEnd:
		trialEnd := "unknown"
		if sub.TrialEnd > 0 {
			trialEnd = formatEpochSeconds(sub.TrialEnd)
		}
		p.logger.Info("subscription trial will end",
			append(fields, billing.Field{Key: "trial_end", Value: trialEnd})...)
	case billing.EventKindUpdated:
		p.logger.Info("subscription updated", fields...)
	case billing.EventKindUnknown:
		p.logger.Warn("unhandled subscription event type",
			append(fields, billing.Field{Key: "event_type", Value: string(event.Type)})...)
	}

	return nil
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
