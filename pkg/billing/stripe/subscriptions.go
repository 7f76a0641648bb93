package stripe

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v83"

	"github.com/subwarden/subwarden/pkg/billing"
)

// Subscriptions lists the customer's subscriptions from Stripe and maps each
// into a normalized SubscriptionRecord. Plan and product data is expanded in
// the same round trip; results are bounded by Stripe's default page size.
//
// A single unmappable record aborts the whole batch. Callers see one failure
// for the whole query rather than a partially-populated list.
func (p *Provider) Subscriptions(ctx context.Context, customerID string) ([]billing.SubscriptionRecord, error) {
	startTime := time.Now()

	customerID, err := p.resolveCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	params := &stripe.SubscriptionListParams{}
	params.Customer = stripe.String(customerID)
	params.AddExpand("data.items.data.price.product")

	records := make([]billing.SubscriptionRecord, 0)

	for sub, err := range p.stripeClient.V1Subscriptions.List(ctx, params) {
		if err != nil {
			p.metrics.RecordAPICall(providerName, "/subscriptions/list", "error")
			p.metrics.RecordAPICallDuration(providerName, "/subscriptions/list", time.Since(startTime))
			return nil, fmt.Errorf("%w: failed to list subscriptions: %v", billing.ErrProviderAPIError, err)
		}

		record, err := transformSubscription(sub)
		if err != nil {
			p.metrics.RecordAPICall(providerName, "/subscriptions/list", "unmappable")
			p.metrics.RecordAPICallDuration(providerName, "/subscriptions/list", time.Since(startTime))
			return nil, err
		}
		records = append(records, record)
	}

	p.metrics.RecordAPICall(providerName, "/subscriptions/list", "success")
	p.metrics.RecordAPICallDuration(providerName, "/subscriptions/list", time.Since(startTime))

	p.logger.Debug("listed subscriptions",
		billing.Field{Key: "customer_id", Value: customerID},
		billing.Field{Key: "count", Value: len(records)},
	)

	return records, nil
}

// transformSubscription maps one raw Stripe subscription into the normalized
// schema. The schema represents exactly one priced item per subscription, so
// only the first line item is considered; a subscription without items, or
// without a billing period on that item, cannot be trusted and is rejected.
func transformSubscription(sub *stripe.Subscription) (billing.SubscriptionRecord, error) {
	var record billing.SubscriptionRecord

	status, err := billing.ParseSubscriptionStatus(string(sub.Status))
	if err != nil {
		return record, fmt.Errorf("subscription %s: %w", sub.ID, err)
	}

	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return record, fmt.Errorf("subscription %s: %w", sub.ID, billing.ErrNoLineItems)
	}
	item := sub.Items.Data[0]

	if item.CurrentPeriodStart == 0 || item.CurrentPeriodEnd == 0 {
		return record, fmt.Errorf("subscription %s: %w", sub.ID, billing.ErrMissingBillingPeriod)
	}

	planName := unknownPlanName
	price := int64(0)
	currency := defaultCurrency

	if item.Price != nil {
		if item.Price.Nickname != "" {
			planName = item.Price.Nickname
		} else if item.Price.Product != nil && item.Price.Product.Name != "" {
			planName = item.Price.Product.Name
		}
		price = item.Price.UnitAmount
		if item.Price.Currency != "" {
			currency = string(item.Price.Currency)
		}
	}

	return billing.SubscriptionRecord{
		SubscriptionID:     sub.ID,
		SubscriptionStatus: status,
		PlanName:           planName,
		Price:              price,
		Currency:           currency,
		CurrentPeriodStart: formatEpochSeconds(item.CurrentPeriodStart),
		CurrentPeriodEnd:   formatEpochSeconds(item.CurrentPeriodEnd),
	}, nil
}

// Probe issues a cheap read-only list call to verify credentials and
// connectivity. It reports the first visible subscription, if any.
func (p *Provider) Probe(ctx context.Context) (*billing.ProbeResult, error) {
	params := &stripe.SubscriptionListParams{}
	params.Limit = stripe.Int64(1)

	result := &billing.ProbeResult{}

	for sub, err := range p.stripeClient.V1Subscriptions.List(ctx, params) {
		if err != nil {
			p.metrics.RecordAPICall(providerName, "/subscriptions/probe", "error")
			return nil, fmt.Errorf("%w: %v", billing.ErrProviderAPIError, err)
		}
		result.SubscriptionID = sub.ID
		result.SubscriptionStatus = string(sub.Status)
		break
	}

	result.OK = true
	p.metrics.RecordAPICall(providerName, "/subscriptions/probe", "success")
	return result, nil
}
