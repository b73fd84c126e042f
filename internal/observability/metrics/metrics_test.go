package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAssistantMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)

	m.ObserveMessage("user")
	m.ObserveMessage("user")
	m.ObserveMessage("assistant")
	m.ObserveIntent("greeting")
	m.ObserveBooking("confirmed")
	m.ObserveCollaboratorFailure("appointments.create")
	m.ObserveTip()
	m.ObserveReplyLatency(1.3)

	if got := counterValue(t, reg, "atende_assistant_messages_total", "sender", "user"); got != 2 {
		t.Errorf("messages_total{sender=user} = %v, want 2", got)
	}
	if got := counterValue(t, reg, "atende_assistant_bookings_total", "outcome", "confirmed"); got != 1 {
		t.Errorf("bookings_total{outcome=confirmed} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "atende_assistant_tips_total", "", ""); got != 1 {
		t.Errorf("tips_total = %v, want 1", got)
	}
}

func TestAssistantMetricsNilSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveMessage("user")
	m.ObserveIntent("greeting")
	m.ObserveBooking("declined")
	m.ObserveCollaboratorFailure("interactions.append")
	m.ObserveTip()
	m.ObserveReplyLatency(0.1)
}

// counterValue reads one counter from a gathered registry; label may be
// empty for plain counters.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if label == "" {
				return metric.GetCounter().GetValue()
			}
			if hasLabel(metric, label, value) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, value)
	return 0
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name && pair.GetValue() == value {
			return true
		}
	}
	return false
}
