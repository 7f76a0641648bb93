package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	return byName
}

func TestMetrics_RecordWebhookEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordWebhookEvent("stripe", "customer.subscription.updated", "success")
	m.RecordWebhookEvent("stripe", "customer.subscription.updated", "success")
	m.RecordWebhookEvent("stripe", "invoice.payment_succeeded", "ignored")

	families := gather(t, reg)
	family, ok := families["test_billing_webhook_events_total"]
	require.True(t, ok, "expected webhook events counter to be registered")

	var successCount float64
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "status" && label.GetValue() == "success" {
				successCount = metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), successCount)
}

func TestMetrics_RecordWebhookError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordWebhookError("stripe", "auth_failed")

	families := gather(t, reg)
	family, ok := families["test_billing_webhook_errors_total"]
	require.True(t, ok)
	assert.Equal(t, float64(1), family.GetMetric()[0].GetCounter().GetValue())
}

func TestMetrics_RecordAPICall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "test")

	m.RecordAPICall("stripe", "/subscriptions/list", "success")
	m.RecordAPICallDuration("stripe", "/subscriptions/list", 120*time.Millisecond)
	m.RecordWebhookProcessingDuration("stripe", "customer.subscription.updated", 5*time.Millisecond)

	families := gather(t, reg)
	require.Contains(t, families, "test_billing_api_calls_total")
	require.Contains(t, families, "test_billing_api_call_duration_seconds")
	require.Contains(t, families, "test_billing_webhook_processing_duration_seconds")

	histogram := families["test_billing_api_call_duration_seconds"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), histogram.GetSampleCount())
}
