package billing

import (
	"fmt"
	"strings"
)

// SubscriptionStatus is the normalized subscription lifecycle state.
// The set is closed: upstream values outside it are rejected rather than
// coerced, since a made-up status would misrepresent billing state.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "active"
	StatusCanceled          SubscriptionStatus = "canceled"
	StatusIncomplete        SubscriptionStatus = "incomplete"
	StatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	StatusPastDue           SubscriptionStatus = "past_due"
	StatusPaused            SubscriptionStatus = "paused"
	StatusTrialing          SubscriptionStatus = "trialing"
	StatusUnpaid            SubscriptionStatus = "unpaid"
)

var validStatuses = map[SubscriptionStatus]bool{
	StatusActive:            true,
	StatusCanceled:          true,
	StatusIncomplete:        true,
	StatusIncompleteExpired: true,
	StatusPastDue:           true,
	StatusPaused:            true,
	StatusTrialing:          true,
	StatusUnpaid:            true,
}

// ParseSubscriptionStatus maps an upstream status string to the closed
// SubscriptionStatus set. Unknown values return ErrUnsupportedStatus.
func ParseSubscriptionStatus(status string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(status)
	if !validStatuses[s] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStatus, status)
	}
	return s, nil
}

// SubscriptionRecord is the normalized view of one upstream subscription.
// Timestamps are ISO-8601 UTC strings derived from upstream epoch seconds.
type SubscriptionRecord struct {
	SubscriptionID     string             `json:"subscriptionId"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	PlanName           string             `json:"planName"`
	Price              int64              `json:"price"`
	Currency           string             `json:"currency"`
	CurrentPeriodStart string             `json:"currentPeriodStart"`
	CurrentPeriodEnd   string             `json:"currentPeriodEnd"`
}

// ProbeResult reports upstream reachability and, when present, the first
// subscription visible to the configured credentials.
type ProbeResult struct {
	OK                 bool   `json:"ok"`
	SubscriptionID     string `json:"subscriptionId,omitempty"`
	SubscriptionStatus string `json:"subscriptionStatus,omitempty"`
}

// SubscriptionEventKind identifies a customer.subscription.* webhook event.
// Representing the suffix as an enum keeps the classifier switch exhaustive
// instead of falling through on raw strings.
type SubscriptionEventKind int

const (
	EventKindUnknown SubscriptionEventKind = iota
	EventKindCreated
	EventKindDeleted
	EventKindPaused
	EventKindResumed
	EventKindTrialWillEnd
	EventKindUpdated
)

// SubscriptionEventPrefix is the namespace shared by all subscription
// lifecycle events emitted by the upstream provider.
const SubscriptionEventPrefix = "customer.subscription."

// ParseSubscriptionEventKind classifies an event-type string. The second
// return is false when the event is outside the subscription namespace
// entirely; in-namespace events with an unrecognized suffix classify as
// EventKindUnknown with true.
func ParseSubscriptionEventKind(eventType string) (SubscriptionEventKind, bool) {
	if !strings.HasPrefix(eventType, SubscriptionEventPrefix) {
		return EventKindUnknown, false
	}
	switch strings.TrimPrefix(eventType, SubscriptionEventPrefix) {
	case "created":
		return EventKindCreated, true
	case "deleted":
		return EventKindDeleted, true
	case "paused":
		return EventKindPaused, true
	case "resumed":
		return EventKindResumed, true
	case "trial_will_end":
		return EventKindTrialWillEnd, true
	case "updated":
		return EventKindUpdated, true
	default:
		return EventKindUnknown, true
	}
}

// String returns the event-type suffix for logging.
func (k SubscriptionEventKind) String() string {
	switch k {
	case EventKindCreated:
		return "created"
	case EventKindDeleted:
		return "deleted"
	case EventKindPaused:
		return "paused"
	case EventKindResumed:
		return "resumed"
	case EventKindTrialWillEnd:
		return "trial_will_end"
	case EventKindUpdated:
		return "updated"
	default:
		return "unknown"
	}
}
