package stripe

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v83"

	"github.com/subwarden/subwarden/pkg/billing"
)

func proSubscription() *stripe.Subscription {
	return &stripe.Subscription{
		ID:     "sub_1",
		Status: "active",
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					CurrentPeriodStart: 1700000000,
					CurrentPeriodEnd:   1702592000,
					Price: &stripe.Price{
						ID:         "price_pro_monthly",
						UnitAmount: 999,
						Currency:   "usd",
						Product: &stripe.Product{
							ID:   "prod_pro",
							Name: "Pro",
						},
					},
				},
			},
		},
	}
}

func TestTransformSubscription(t *testing.T) {
	record, err := transformSubscription(proSubscription())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := billing.SubscriptionRecord{
		SubscriptionID:     "sub_1",
		SubscriptionStatus: billing.StatusActive,
		PlanName:           "Pro",
		Price:              999,
		Currency:           "usd",
		CurrentPeriodStart: "2023-11-14T22:13:20.000Z",
		CurrentPeriodEnd:   "2023-12-14T22:13:20.000Z",
	}
	if record != want {
		t.Errorf("Expected %+v, got %+v", want, record)
	}
}

func TestTransformSubscription_NicknameWinsOverProduct(t *testing.T) {
	sub := proSubscription()
	sub.Items.Data[0].Price.Nickname = "Pro (annual)"

	record, err := transformSubscription(sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if record.PlanName != "Pro (annual)" {
		t.Errorf("Expected nickname to win, got %s", record.PlanName)
	}
}

func TestTransformSubscription_PlanNameFallback(t *testing.T) {
	sub := proSubscription()
	sub.Items.Data[0].Price.Product = nil

	record, err := transformSubscription(sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if record.PlanName != unknownPlanName {
		t.Errorf("Expected %q, got %q", unknownPlanName, record.PlanName)
	}
}

func TestTransformSubscription_PriceDefaults(t *testing.T) {
	sub := proSubscription()
	sub.Items.Data[0].Price = nil

	record, err := transformSubscription(sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if record.Price != 0 {
		t.Errorf("Expected price 0, got %d", record.Price)
	}
	if record.Currency != defaultCurrency {
		t.Errorf("Expected currency %q, got %q", defaultCurrency, record.Currency)
	}
	if record.PlanName != unknownPlanName {
		t.Errorf("Expected %q, got %q", unknownPlanName, record.PlanName)
	}
}

func TestTransformSubscription_NoLineItems(t *testing.T) {
	sub := proSubscription()
	sub.Items = &stripe.SubscriptionItemList{}

	_, err := transformSubscription(sub)
	if !errors.Is(err, billing.ErrNoLineItems) {
		t.Errorf("Expected ErrNoLineItems, got %v", err)
	}

	sub.Items = nil
	_, err = transformSubscription(sub)
	if !errors.Is(err, billing.ErrNoLineItems) {
		t.Errorf("Expected ErrNoLineItems for nil items, got %v", err)
	}
}

func TestTransformSubscription_MissingPeriod(t *testing.T) {
	sub := proSubscription()
	sub.Items.Data[0].CurrentPeriodStart = 0
	if _, err := transformSubscription(sub); !errors.Is(err, billing.ErrMissingBillingPeriod) {
		t.Errorf("Expected ErrMissingBillingPeriod, got %v", err)
	}

	sub = proSubscription()
	sub.Items.Data[0].CurrentPeriodEnd = 0
	if _, err := transformSubscription(sub); !errors.Is(err, billing.ErrMissingBillingPeriod) {
		t.Errorf("Expected ErrMissingBillingPeriod, got %v", err)
	}
}

func TestTransformSubscription_UnsupportedStatus(t *testing.T) {
	sub := proSubscription()
	sub.Status = "suspended"

	_, err := transformSubscription(sub)
	if !errors.Is(err, billing.ErrUnsupportedStatus) {
		t.Errorf("Expected ErrUnsupportedStatus, got %v", err)
	}
}

func TestTransformSubscription_FirstItemOnly(t *testing.T) {
	sub := proSubscription()
	sub.Items.Data = append(sub.Items.Data, &stripe.SubscriptionItem{
		CurrentPeriodStart: 1,
		CurrentPeriodEnd:   2,
		Price: &stripe.Price{
			ID:         "price_addon",
			UnitAmount: 500,
			Currency:   "eur",
		},
	})

	record, err := transformSubscription(sub)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Multi-item subscriptions are represented by their first item only
	if record.PlanName != "Pro" || record.Price != 999 || record.Currency != "usd" {
		t.Errorf("Expected first item to win, got %+v", record)
	}
}
