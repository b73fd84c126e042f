package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the dialogue engine.
type AssistantMetrics struct {
	messagesTotal        *prometheus.CounterVec
	intentsTotal         *prometheus.CounterVec
	bookingsTotal        *prometheus.CounterVec
	collaboratorFailures *prometheus.CounterVec
	tipsTotal            prometheus.Counter
	replyLatency         prometheus.Histogram
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "messages_total",
			Help:      "Total transcript messages by sender",
		}, []string{"sender"}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "intents_total",
			Help:      "Total matched intents",
		}, []string{"intent"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "bookings_total",
			Help:      "Booking flow outcomes at the confirmation stage",
		}, []string{"outcome"}),
		collaboratorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "collaborator_failures_total",
			Help:      "Failed best-effort collaborator calls",
		}, []string{"operation"}),
		tipsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "tips_total",
			Help:      "Proactive tips injected into transcripts",
		}),
		replyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "atende",
			Subsystem: "assistant",
			Name:      "reply_latency_seconds",
			Help:      "Latency from submission to reply, typing delay included",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.intentsTotal, m.bookingsTotal, m.collaboratorFailures, m.tipsTotal, m.replyLatency)
	return m
}

func (m *AssistantMetrics) ObserveMessage(sender string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(sender).Inc()
}

func (m *AssistantMetrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intentsTotal.WithLabelValues(intent).Inc()
}

func (m *AssistantMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *AssistantMetrics) ObserveCollaboratorFailure(operation string) {
	if m == nil {
		return
	}
	m.collaboratorFailures.WithLabelValues(operation).Inc()
}

func (m *AssistantMetrics) ObserveTip() {
	if m == nil {
		return
	}
	m.tipsTotal.Inc()
}

func (m *AssistantMetrics) ObserveReplyLatency(seconds float64) {
	if m == nil {
		return
	}
	m.replyLatency.Observe(seconds)
}
